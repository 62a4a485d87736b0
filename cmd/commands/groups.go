package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
)

// NewGroupsCommand creates the groups command
func NewGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the pipeline groups views can filter on",
		Args:  cobra.NoArgs,
		RunE:  runGroups,
	}
}

func runGroups(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	groups, err := cc.Client().PipelineGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load pipeline groups: %w", err)
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, groups)
	}

	if len(groups) == 0 {
		cli.PrintInfo("No pipeline groups found")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("NAME", "PIPELINES", "COUNT")
	for _, g := range groups {
		table.Row(g.Name, cli.TruncateString(cli.JoinOrDash(g.Pipelines), 50), strconv.Itoa(len(g.Pipelines)))
	}
	table.Flush()
	return nil
}
