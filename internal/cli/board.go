package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/tui/board"
)

// launchBoardFunc starts the board UI. Tests replace it.
var launchBoardFunc = board.Run

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive task board",
		Long: `Open the interactive task board.

Tasks are shown in one column per status. Use enter to advance the
selected task, x to cancel it and ? for all key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var scope *string
			if orderID != "" {
				scope = &orderID
			}
			return launchBoardFunc(c, scope)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Only show tasks of this order")
	return cmd
}
