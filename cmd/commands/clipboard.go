package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dashviews/dashviews-cli/internal/cli"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// NewClipboardCommand creates the view copy command
func NewClipboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "copy <name>",
		Aliases: []string{"clipboard", "clip"},
		Short:   "Copy a view's filter to the clipboard as YAML",
		Long: `Copy a view to the system clipboard as YAML, ready to paste into an
issue or another user's export file.

Examples:
  dashviews view copy Sprint`,
		Args: cobra.ExactArgs(1),
		RunE: runClipboard,
	}
}

func runClipboard(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	v, err := loadView(cmd, cc, args[0])
	if err != nil {
		return err
	}

	content, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to render view: %w", err)
	}

	if err := writeClipboard(string(content)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("Copied view %s to clipboard", v.Name)
	return nil
}
