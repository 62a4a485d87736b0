package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// ListResult represents the output structure for the list command
type ListResult struct {
	User        string     `json:"user" yaml:"user"`
	CurrentView string     `json:"current_view" yaml:"current_view"`
	ContentHash string     `json:"content_hash" yaml:"content_hash"`
	Items       []ListItem `json:"items" yaml:"items"`
	Count       int        `json:"count" yaml:"count"`
}

// ListItem represents a single view in the list
type ListItem struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Groups  []string `json:"pipeline_groups" yaml:"pipeline_groups"`
	States  []string `json:"states,omitempty" yaml:"states,omitempty"`
	Current bool     `json:"current,omitempty" yaml:"current,omitempty"`
}

// NewListCommand creates the view list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List views",
		Long: `List the current user's views in display order. The current view is
marked with an asterisk.

Examples:
  # List views
  dashviews view list

  # List another user's views as JSON
  dashviews view list --user alice -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
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

	current := cc.Settings.UI.CurrentView
	result := ListResult{
		User:        client.User(),
		CurrentView: current,
		ContentHash: p.ContentHash,
		Count:       len(p.Filters),
	}
	for _, v := range p.Filters {
		result.Items = append(result.Items, ListItem{
			Name:    v.Name,
			Type:    string(v.Type),
			Groups:  v.PipelineGroups,
			States:  v.States,
			Current: models.SameViewName(v.Name, current),
		})
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("", "NAME", "TYPE", "GROUPS", "STATES")
	for _, item := range result.Items {
		marker := ""
		if item.Current {
			marker = "*"
		}
		table.Row(marker, item.Name, item.Type,
			cli.TruncateString(cli.JoinOrDash(item.Groups), 40),
			cli.JoinOrDash(item.States))
	}
	table.Flush()
	return nil
}
