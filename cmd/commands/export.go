package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/files"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

var (
	exportToFile string
)

// NewExportCommand creates the view export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all views to stdout or a file",
		Long: `Export the user's views as a YAML document (or JSON with -o json).

Examples:
  # Export to stdout
  dashviews view export

  # Export to a file
  dashviews view export --file .dashviews/exports/views.yaml`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportToFile, "file", "f", "", "Export to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	client := cc.Client()
	p, err := client.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load views: %s", personalize.Reason(err))
	}
	doc := files.ViewsDocument{User: client.User(), Views: p.Filters}

	outputFormat, _ := cmd.Flags().GetString("output")
	var content []byte
	if outputFormat == "json" {
		content, err = json.MarshalIndent(doc, "", "  ")
		content = append(content, '\n')
	} else {
		content, err = files.MarshalViews(doc)
	}
	if err != nil {
		return err
	}

	if exportToFile == "" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	if err := files.WriteFile(exportToFile, content); err != nil {
		return err
	}
	cli.PrintSuccess("Exported %d views to %s", len(doc.Views), exportToFile)
	return nil
}
