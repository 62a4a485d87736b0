package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashviews/dashviews-cli/internal/cli"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// NewShowCommand creates the view show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a view's filter",
		Long: `Show one view. Names match case-insensitively.

Examples:
  dashviews view show sprint
  dashviews view show Sprint -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	v, err := loadView(cmd, cc, args[0])
	if err != nil {
		return err
	}
	return printView(cmd, v, models.SameViewName(v.Name, cc.Settings.UI.CurrentView))
}

// loadView fetches the user's views and returns the named one
func loadView(cmd *cobra.Command, cc *cli.CommandContext, name string) (models.View, error) {
	p, err := cc.Client().Load(cmd.Context())
	if err != nil {
		return models.View{}, fmt.Errorf("failed to load views: %s", personalize.Reason(err))
	}
	v, ok := personalize.NewCollection(p).Find(name)
	if !ok {
		return models.View{}, fmt.Errorf("%w: %s", personalize.ErrUnknownView, name)
	}
	return v, nil
}
