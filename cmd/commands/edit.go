package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

var (
	editName         string
	editType         string
	editGroups       []string
	editAddGroups    []string
	editRemoveGroups []string
	editStates       []string
)

// NewEditCommand creates the view edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change or rename a view",
		Long: `Change an existing view. Only the given flags are applied.

Examples:
  # Rename a view
  dashviews view edit Broken --name "Broken builds"

  # Add a group to a view
  dashviews view edit Sprint --add-group release

  # Replace the groups and switch to an include view
  dashviews view edit Sprint --type include --group build,test

  # Clear the state filters
  dashviews view edit Sprint --state ""`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().StringVarP(&editName, "name", "n", "", "New name for the view")
	cmd.Flags().StringVarP(&editType, "type", "t", "", "View type: exclude (blacklist) or include (whitelist)")
	cmd.Flags().StringSliceVarP(&editGroups, "group", "g", nil, "Replace the pipeline groups")
	cmd.Flags().StringSliceVar(&editAddGroups, "add-group", nil, "Add pipeline groups")
	cmd.Flags().StringSliceVar(&editRemoveGroups, "remove-group", nil, "Remove pipeline groups")
	cmd.Flags().StringSliceVarP(&editStates, "state", "s", nil, "Replace the state filters: building, failing")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("type") && !flags.Changed("group") &&
		!flags.Changed("add-group") && !flags.Changed("remove-group") && !flags.Changed("state") {
		return fmt.Errorf("nothing to change; pass --name, --type, --group, --add-group, --remove-group or --state")
	}

	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	session, err := startSession(cmd.Context(), cc, args[0])
	if err != nil {
		return err
	}
	defer session.close()

	var flagErr error
	session.wf.Edit(func(s *personalize.EditorState) {
		if flags.Changed("name") {
			s.SetName(editName)
		}
		if flags.Changed("group") {
			s.SetGroups(cli.SplitList(editGroups))
		}
		for _, g := range cli.SplitList(editAddGroups) {
			if !s.Draft.Includes(g) {
				s.ToggleGroup(g)
			}
		}
		for _, g := range cli.SplitList(editRemoveGroups) {
			if s.Draft.Includes(g) {
				s.ToggleGroup(g)
			}
		}
		flagErr = applyFilterFlags(cmd, s, editType, editStates)
	})
	if flagErr != nil {
		return flagErr
	}

	original := session.wf.State().Original
	name := session.wf.State().View().Name
	if err := session.save(); err != nil {
		return err
	}

	saved, _ := session.coll.Find(name)
	if original != saved.Name {
		cli.PrintSuccess("Renamed view %s to %s", original, saved.Name)
	} else {
		cli.PrintSuccess("Updated view %s", saved.Name)
	}
	return printView(cmd, saved, models.SameViewName(saved.Name, cc.Settings.UI.CurrentView))
}
