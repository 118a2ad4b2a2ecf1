package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newItemCommand creates the item command for order line items.
func newItemCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage order line items",
	}
	cmd.AddCommand(
		newItemAddCommand(c),
		newItemUpdateCommand(c),
		newItemRmCommand(c),
	)
	return cmd
}

func newItemAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		ProductID string
		Quantity  string
		Price     string
	}

	cmd := &cobra.Command{
		Use:   "add <order-id>",
		Short: "Add a product to an order",
		Long: `Add a product to an order and derive its tasks.

Without --price the product's current price is captured. If derivation
fails the item is still saved and a warning is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.AddOrderItemInput{OrderID: args[0]}
			in.ProductID = opts.ProductID
			qty, err := parseDecimal("quantity", opts.Quantity)
			if err != nil {
				return err
			}
			in.Quantity = qty
			if opts.Price != "" {
				price, err := parseDecimal("price", opts.Price)
				if err != nil {
					return err
				}
				in.Price = &price
			}

			out, err := c.AddOrderItemUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added item %s (order total %s)\n", out.Item.ID, out.Total.StringFixed(2))
			printDerivation(cmd.OutOrStdout(), cmd.ErrOrStderr(), out.Derived, out.DerivationErr)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ProductID, "product", "", "Product to add (required)")
	cmd.Flags().StringVar(&opts.Quantity, "quantity", "1", "Quantity")
	cmd.Flags().StringVar(&opts.Price, "price", "", "Unit price (default: current product price)")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func newItemUpdateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Quantity string
		Price    string
	}

	cmd := &cobra.Command{
		Use:   "update <order-id> <item-id>",
		Short: "Change quantity or price of a line item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.UpdateOrderItemInput{OrderID: args[0], ItemID: args[1]}
			if opts.Quantity != "" {
				qty, err := parseDecimal("quantity", opts.Quantity)
				if err != nil {
					return err
				}
				in.Quantity = &qty
			}
			if opts.Price != "" {
				price, err := parseDecimal("price", opts.Price)
				if err != nil {
					return err
				}
				in.Price = &price
			}

			out, err := c.UpdateOrderItemUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s: %s x %s (order total %s)\n",
				out.Item.ID, out.Item.Quantity.String(), out.Item.Price.StringFixed(2), out.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Quantity, "quantity", "", "New quantity")
	cmd.Flags().StringVar(&opts.Price, "price", "", "New unit price")
	return cmd
}

func newItemRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <order-id> <item-id>",
		Short: "Remove a line item",
		Long: `Remove a line item from an order.
Tasks already derived for the item's product are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RemoveOrderItemUseCase().Execute(cmd.Context(), usecase.RemoveOrderItemInput{
				OrderID: args[0],
				ItemID:  args[1],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s (order total %s)\n", args[1], out.Total.StringFixed(2))
			return nil
		},
	}
}
