package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/files"
	"github.com/dashviews/dashviews-cli/pkg/server"
	"github.com/dashviews/dashviews-cli/pkg/store"
)

var (
	serveDB     string
	serveGroups string
	serveAddr   string
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the filter store server",
		Long: `Run the HTTP filter store that keeps each user's views in SQLite.

Pipeline groups offered to the editor are read from a YAML file on every
request, so edits to it show up without a restart.

Examples:
  # Serve with the paths from settings.yaml
  dashviews serve

  # Serve on another port with a scratch database
  dashviews serve --addr :9000 --db /tmp/views.sqlite`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default from settings)")
	cmd.Flags().StringVar(&serveGroups, "groups", "", "Pipeline groups YAML file (default from settings)")
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	cfg := cc.Settings.Serve
	if serveDB != "" {
		cfg.Database = serveDB
	}
	if serveGroups != "" {
		cfg.GroupsFile = serveGroups
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	if _, err := os.Stat(cfg.GroupsFile); err != nil {
		return fmt.Errorf("pipeline groups file %s not found. Run 'dashviews init' or pass --groups", cfg.GroupsFile)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(st, files.GroupsFile{Path: cfg.GroupsFile}, cc.Logger)
	defer srv.Close()

	cli.PrintInfo("Filter store listening on %s (database %s)", cfg.Addr, cfg.Database)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
