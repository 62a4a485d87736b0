package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/files"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// NewViewCommand groups the view subcommands
func NewViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"views"},
		Short:   "List, edit and delete personalization views",
	}

	cmd.AddCommand(
		NewListCommand(),
		NewShowCommand(),
		NewCreateCommand(),
		NewEditCommand(),
		NewDeleteCommand(),
		NewClipboardCommand(),
		NewExportCommand(),
	)
	return cmd
}

// editorSession runs the editor workflow without a terminal UI. Dialogs are
// recorded by a cli.Host and answered by the command.
type editorSession struct {
	cc   *cli.CommandContext
	coll *personalize.Collection
	host *cli.Host
	wf   *personalize.Workflow
}

// startSession loads the user's views and opens the editor on existing, or
// on a new view when existing is empty
func startSession(ctx context.Context, cc *cli.CommandContext, existing string) (*editorSession, error) {
	client := cc.Client()
	p, err := client.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load views: %s", personalize.Reason(err))
	}

	s := &editorSession{
		cc:   cc,
		coll: personalize.NewCollection(p),
		host: cli.NewHost(cc.Logger),
	}

	dashboard := personalize.NewDashboardState(cc.Settings.UI.CurrentView, s.coll)
	dashboard.OnChange = s.viewsChanged

	s.wf = personalize.NewWorkflow(personalize.Deps{
		Collection: s.coll,
		Remote:     client,
		Groups:     client,
		Host:       s.host,
		Dashboard:  dashboard,
		Logger:     cc.Logger,
		Context:    ctx,
		Timeout:    cc.Timeout(),
	})

	cmd, err := s.wf.Start(existing)
	if err != nil {
		return nil, err
	}
	personalize.Drive(s.wf, cmd)
	return s, nil
}

// save validates and sends the draft; a failure leaves the session editing
func (s *editorSession) save() error {
	personalize.Drive(s.wf, s.wf.Save())

	switch s.wf.Phase() {
	case personalize.PhaseSaved:
		return nil
	case personalize.PhaseEditing:
		state := s.wf.State()
		if state.ValidationError != "" {
			return fmt.Errorf("invalid view: %s", state.ValidationError)
		}
		if state.RemoteError != "" {
			return fmt.Errorf("save failed: %s", state.RemoteError)
		}
	}
	return fmt.Errorf("save did not complete (%s)", s.wf.Phase())
}

// close releases whatever the session still holds
func (s *editorSession) close() {
	s.wf.Abandon()
}

// viewsChanged persists the dashboard's current view: the saved view after a
// save, Default after a delete
func (s *editorSession) viewsChanged(c personalize.ViewChange) {
	if s.cc.ValidateProject() != nil {
		return
	}

	previous := s.cc.Settings.UI.CurrentView
	s.cc.Settings.UI.CurrentView = c.Current
	if err := files.WriteSettings(s.cc.Settings); err != nil {
		s.cc.Logger.WithError(err).Warn("cannot persist current view")
		return
	}
	if previous != c.Current {
		cli.PrintInfo("Current view is now %s", c.Current)
	}
}

// applyFilterFlags copies --type and --state onto the draft when given
func applyFilterFlags(cmd *cobra.Command, s *personalize.EditorState, viewType string, states []string) error {
	if cmd.Flags().Changed("type") {
		t, err := cli.ParseViewType(viewType)
		if err != nil {
			return err
		}
		s.SetType(t)
	}
	if cmd.Flags().Changed("state") {
		parsed, err := cli.ParseStates(states)
		if err != nil {
			return err
		}
		for _, known := range models.KnownStates {
			if s.Draft.HasState(known) != slices.Contains(parsed, known) {
				s.ToggleState(known)
			}
		}
	}
	return nil
}

// printView writes a single view in the requested format
func printView(cmd *cobra.Command, v models.View, current bool) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, v)
	}

	w := cmd.OutOrStdout()
	name := v.Name
	if current {
		name += " (current)"
	}
	fmt.Fprintf(w, "Name:    %s\n", name)
	fmt.Fprintf(w, "Type:    %s (%s)\n", v.Type, cli.DescribeViewType(v.Type))
	fmt.Fprintf(w, "Groups:  %s\n", cli.JoinOrDash(v.PipelineGroups))
	fmt.Fprintf(w, "States:  %s\n", cli.JoinOrDash(v.States))
	return nil
}
