package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// NewDeleteCommand creates the view delete command
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a view",
		Long: `Delete a personalization view after confirmation.

The last remaining view cannot be deleted. If the deleted view was the
current one, the dashboard switches back to Default.

Examples:
  # Delete a view (with confirmation)
  dashviews view delete Sprint

  # Delete without confirmation
  dashviews view delete Sprint --yes`,
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"rm"},
		RunE:    runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	wf := session.wf
	if !wf.DeleteAllowed() {
		return errors.New(personalize.LastViewTooltip)
	}

	wf.RequestDelete()
	dialog, ok := session.host.Top()
	if !ok || wf.Phase() != personalize.PhaseConfirmingDelete {
		return errors.New("delete could not be started")
	}

	confirmed, err := cli.Confirm(dialog.Body.Text(), false)
	if err != nil {
		return err
	}
	if !confirmed {
		wf.CancelDelete()
		wf.Cancel()
		cli.PrintInfo("Deletion cancelled")
		return nil
	}

	personalize.Drive(wf, wf.ConfirmDelete())

	switch wf.Phase() {
	case personalize.PhaseDeleted:
		cli.PrintSuccess("Deleted view %s", wf.State().Original)
		return nil
	case personalize.PhaseDeleteFailed:
		failure, _ := session.host.Top()
		wf.Dismiss()
		return errors.New(failure.Body.Text())
	}
	return errors.New("delete did not complete (" + wf.Phase().String() + ")")
}
