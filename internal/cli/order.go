package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newOrderCommand creates the order command.
func newOrderCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders",
	}
	cmd.AddCommand(
		newOrderCreateCommand(c),
		newOrderListCommand(c),
		newOrderShowCommand(c),
		newOrderStatusCommand(c),
		newOrderRmCommand(c),
		newOrderDeriveCommand(c),
		newOrderRecomputeCommand(c),
	)
	return cmd
}

func newOrderCreateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		CustomerID string
		Notes      string
		Date       string
		Delivery   string
		Items      []string
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place a new order",
		Long: `Place a new order.

Each --item is <product-id>:<quantity>[@<unit-price>]. Without a price the
product's current price is used. Tasks are derived from the templates of
every ordered product; if derivation fails the order is still saved and a
warning is printed.

Examples:
  shopdesk order create --customer c-42 --item <product-id>:2
  shopdesk order create --delivery 2026-05-01 --item <product-id>:1@9.50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.CreateOrderInput{
				CustomerID: opts.CustomerID,
				Notes:      opts.Notes,
			}
			if opts.Date != "" {
				d, err := parseDate("date", opts.Date)
				if err != nil {
					return err
				}
				in.OrderDate = &d
			}
			if opts.Delivery != "" {
				d, err := parseDate("delivery", opts.Delivery)
				if err != nil {
					return err
				}
				in.DeliveryDate = &d
			}
			for _, spec := range opts.Items {
				item, err := parseItemSpec(spec)
				if err != nil {
					return err
				}
				in.Items = append(in.Items, item)
			}

			out, err := c.CreateOrderUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created order %s (%d item(s), total %s)\n",
				out.Order.ID, len(out.Items), out.Order.TotalAmount.StringFixed(2))
			printDerivation(cmd.OutOrStdout(), cmd.ErrOrStderr(), out.Derived, out.DerivationErr)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.CustomerID, "customer", "", "Customer reference")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "Order notes")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Order date (default: now)")
	cmd.Flags().StringVar(&opts.Delivery, "delivery", "", "Requested delivery date")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "Line item <product-id>:<qty>[@price] (repeatable)")
	return cmd
}

func newOrderListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status     string
		CustomerID string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in usecase.ListOrdersInput
			if opts.Status != "" {
				in.Status = domain.Ptr(domain.OrderStatus(opts.Status))
			}
			if opts.CustomerID != "" {
				in.CustomerID = &opts.CustomerID
			}

			out, err := c.ListOrdersUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tCUSTOMER\tORDERED\tDELIVERY\tTOTAL")
			for _, o := range out.Orders {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.Status, orDash(o.CustomerID), formatDate(&o.OrderDate),
					formatDate(o.DeliveryDate), o.TotalAmount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (pending, processing, completed, cancelled)")
	cmd.Flags().StringVar(&opts.CustomerID, "customer", "", "Filter by customer")
	return cmd
}

func newOrderShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order with its items and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowOrderUseCase().Execute(cmd.Context(), usecase.ShowOrderInput{OrderID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			o := out.Order
			_, _ = fmt.Fprintf(w, "Order %s\n", o.ID)
			_, _ = fmt.Fprintf(w, "Status:   %s\n", o.Status)
			_, _ = fmt.Fprintf(w, "Customer: %s\n", orDash(o.CustomerID))
			_, _ = fmt.Fprintf(w, "Ordered:  %s\n", formatDate(&o.OrderDate))
			_, _ = fmt.Fprintf(w, "Delivery: %s\n", formatDate(o.DeliveryDate))
			if o.Notes != "" {
				_, _ = fmt.Fprintf(w, "Notes:    %s\n", o.Notes)
			}
			_, _ = fmt.Fprintf(w, "Total:    %s\n", o.TotalAmount.StringFixed(2))

			_, _ = fmt.Fprintf(w, "\nItems (%d):\n", len(out.Items))
			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			for _, it := range out.Items {
				_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s x %s\t%s\n",
					it.ID, it.ProductID, it.Quantity.String(), it.Price.StringFixed(2), it.LineTotal().StringFixed(2))
			}
			_ = tw.Flush()

			_, _ = fmt.Fprintf(w, "\nTasks (%d):\n", len(out.Tasks))
			printTaskTree(w, out.Tasks)
			return nil
		},
	}
}

func newOrderStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Long: `Move an order to a new status.

Allowed transitions:
  pending    -> processing, cancelled
  processing -> completed, cancelled`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UpdateOrderStatusUseCase().Execute(cmd.Context(), usecase.UpdateOrderStatusInput{
				OrderID: args[0],
				Status:  domain.OrderStatus(args[1]),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", out.Order.ID, out.Order.Status)
			return nil
		},
	}
}

func newOrderRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <order-id>",
		Short: "Delete an order with its items and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteOrderUseCase().Execute(cmd.Context(), usecase.DeleteOrderInput{OrderID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %s (%d item(s), %d task(s))\n",
				args[0], out.ItemsDeleted, out.TasksDeleted)
			return nil
		},
	}
}

func newOrderDeriveCommand(c *app.Container) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "derive <order-id>",
		Short: "Derive tasks from product templates",
		Long: `Derive tasks for an order from its products' templates.

Derivation is idempotent: templates that already produced a task for the
order are skipped, so it is safe to run again after a failed attempt or
after templates were added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.DeriveTasksInput{OrderID: args[0]}
			if productID != "" {
				in.ProductID = &productID
			}
			out, err := c.DeriveTasksUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printDerivation(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Only derive for this product")
	return cmd
}

func newOrderRecomputeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <order-id>",
		Short: "Recompute an order's total from its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RecomputeOrderTotalUseCase().Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out.Previous.Equal(out.Total) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total %s (unchanged)\n", out.Total.StringFixed(2))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total %s (was %s)\n",
				out.Total.StringFixed(2), out.Previous.StringFixed(2))
			return nil
		},
	}
}
