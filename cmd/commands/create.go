package commands

import (
	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

var (
	createType   string
	createGroups []string
	createStates []string
)

// NewCreateCommand creates the view create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new view",
		Long: `Create a new personalization view.

An exclude view shows every pipeline group except the listed ones; an
include view shows only the listed groups and needs at least one.

Examples:
  # Hide the deploy groups
  dashviews view create "No deploys" --group deploy-staging,deploy-prod

  # Only show failing builds of two groups
  dashviews view create Broken --type include --group build --group test --state failing`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}

	cmd.Flags().StringVarP(&createType, "type", "t", "exclude", "View type: exclude (blacklist) or include (whitelist)")
	cmd.Flags().StringSliceVarP(&createGroups, "group", "g", nil, "Pipeline group to list (repeatable, comma separated)")
	cmd.Flags().StringSliceVarP(&createStates, "state", "s", nil, "Only show pipelines in this state: building, failing")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	session, err := startSession(cmd.Context(), cc, "")
	if err != nil {
		return err
	}
	defer session.close()

	var flagErr error
	session.wf.Edit(func(s *personalize.EditorState) {
		s.SetName(args[0])
		s.SetGroups(cli.SplitList(createGroups))
		flagErr = applyFilterFlags(cmd, s, createType, createStates)
	})
	if flagErr != nil {
		return flagErr
	}
	if draft := session.wf.State().Draft; draft.Type == models.ViewTypeExclude && len(draft.PipelineGroups) == 0 {
		cli.PrintWarning("No groups given; the view will show every pipeline group")
	}

	if err := session.save(); err != nil {
		return err
	}

	saved, _ := session.coll.Find(args[0])
	cli.PrintSuccess("Created view %s", saved.Name)
	return printView(cmd, saved, models.SameViewName(saved.Name, cc.Settings.UI.CurrentView))
}
