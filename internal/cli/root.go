// Package cli provides the command-line interface for shopdesk.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupCatalog = "catalog"
	groupOrders  = "orders"
	groupTasks   = "tasks"
)

// annotationNoStore marks commands that work without an initialized store.
const annotationNoStore = "shopdesk/no-store"

var noStore = map[string]string{annotationNoStore: "true"}

// NewRootCommand creates the root command for shopdesk.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopdesk",
		Short: "Order fulfillment and task tracking for small shops",
		Long: `shopdesk keeps products, ingredients, orders and the work they cause in
one place. Task templates attached to products are turned into tasks
whenever an order is placed or a product is added to an order.

Run 'shopdesk init' in a directory to create the .shopdesk data directory.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}
			if needsStore(cmd) && !c.Ready() {
				return domain.ErrNotInitialized
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupCatalog, Title: "Catalog:"},
		&cobra.Group{ID: groupOrders, Title: "Orders:"},
		&cobra.Group{ID: groupTasks, Title: "Tasks:"},
	)

	add := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}
	add(groupSetup,
		newInitCommand(c),
		newConfigCommand(c),
		newLogsCommand(c),
		newServeCommand(c),
	)
	add(groupCatalog,
		newProductCommand(c),
		newIngredientCommand(c),
		newTemplateCommand(c),
	)
	add(groupOrders,
		newOrderCommand(c),
		newItemCommand(c),
	)
	add(groupTasks,
		newTaskCommand(c),
		newBoardCommand(c),
	)

	return root
}

// needsStore reports whether cmd requires an opened store.
func needsStore(cmd *cobra.Command) bool {
	for cur := cmd; cur != nil; cur = cur.Parent() {
		if cur.Annotations[annotationNoStore] == "true" {
			return false
		}
		switch cur.Name() {
		case "help", "completion", "__complete":
			return false
		}
	}
	return cmd.Runnable()
}
