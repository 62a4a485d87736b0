package commands

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/files"
	"github.com/dashviews/dashviews-cli/pkg/tui"
)

// Global flag values
var (
	flagQuiet    bool
	flagNoColor  bool
	flagYes      bool
	flagOutput   string
	flagServer   string
	flagUser     string
	flagLogLevel string
	flagLogFile  string
)

// NewRootCommand builds the dashviews command tree
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "dashviews",
		Short: "Manage personalized pipeline dashboard views",
		Long: `dashviews manages the named views that filter a continuous delivery
dashboard by pipeline group. Views are stored per user on a filter store
server; run 'dashviews serve' to start one locally.

Run without arguments to open the interactive editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.SetGlobalFlags(flagQuiet, flagNoColor, flagYes)
			cli.SetConnectionFlags(flagServer, flagUser, flagLogLevel, flagLogFile)
			return cli.ValidateOutputFormat(flagOutput)
		},
		RunE: runTUI,
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable symbols and colors in output")
	pf.BoolVarP(&flagYes, "yes", "y", false, "Answer yes to confirmation prompts")
	pf.StringVarP(&flagOutput, "output", "o", "text", "Output format (text, json, yaml)")
	pf.StringVar(&flagServer, "server", "", "Filter store URL (overrides settings)")
	pf.StringVar(&flagUser, "user", "", "User whose views to manage (overrides settings)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	root.AddCommand(
		NewInitCommand(),
		NewVersionCommand(version),
		NewServeCommand(),
		NewGroupsCommand(),
		NewViewCommand(),
	)

	return root
}

// NewVersionCommand creates the version command
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dashviews",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dashviews version %s\n", version)
		},
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	// The TUI owns the terminal; without a log file, logging would corrupt it
	if cc.Settings.Log.File == "" {
		cc.Logger.SetOutput(io.Discard)
	}

	client := cc.Client()
	cfg := tui.Config{
		Remote:      client,
		Groups:      client,
		Logger:      cc.Logger,
		Location:    cc.Location(),
		CurrentView: cc.Settings.UI.CurrentView,
		DialogWidth: cc.Settings.UI.DialogWidth,
		Timeout:     cc.Timeout(),
	}
	if cc.Settings.UI.LiveRefresh {
		cfg.Watcher = client
	}
	if cc.ValidateProject() == nil {
		cfg.OnCurrentViewChange = func(name string) {
			cc.Settings.UI.CurrentView = name
			if err := files.WriteSettings(cc.Settings); err != nil {
				cc.Logger.WithError(err).Warn("cannot persist current view")
			}
		}
	}

	p := tea.NewProgram(tui.NewApp(cfg), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}
