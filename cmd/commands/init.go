package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/files"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a dashviews project",
		Long: `Creates the .dashviews folder in the current directory with default
settings and an example pipeline groups file for 'dashviews serve'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine current directory: %w", err)
			}

			cli.PrintInfo("Initializing dashviews project in %s...", cwd)

			if err := files.InitProjectStructure(); err != nil {
				return fmt.Errorf("failed to initialize project structure: %w", err)
			}

			cli.PrintSuccess("Created %s folder structure", files.DashviewsDir)
			cli.PrintInfo("Run 'dashviews serve' to start a filter store, then 'dashviews' to edit views.")
			return nil
		},
	}
}
