package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newProductCommand creates the product command.
func newProductCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(
		newProductAddCommand(c),
		newProductListCommand(c),
		newProductRmCommand(c),
		newProductLinkCommand(c),
		newProductTasksCommand(c),
	)
	return cmd
}

func newProductAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Price    string
		Stock    int
		MinStock int
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Long: `Create a product.

Examples:
  shopdesk product add --name Bread --price 4.50
  shopdesk product add --name Cake --price 12 --stock 3 --min-stock 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			price := decimal.Zero
			if opts.Price != "" {
				var err error
				if price, err = parseDecimal("price", opts.Price); err != nil {
					return err
				}
			}
			out, err := c.CreateProductUseCase().Execute(cmd.Context(), usecase.CreateProductInput{
				Name:     opts.Name,
				Price:    price,
				Stock:    opts.Stock,
				MinStock: opts.MinStock,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created product %s (%s)\n", out.Product.Name, out.Product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&opts.Price, "price", "", "Unit price, e.g. 4.50")
	cmd.Flags().IntVar(&opts.Stock, "stock", 0, "Units in stock")
	cmd.Flags().IntVar(&opts.MinStock, "min-stock", 0, "Restock threshold")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListProductsUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tMIN")
			for _, p := range out.Products {
				stock := fmt.Sprintf("%d", p.Stock)
				if p.BelowMinStock() {
					stock += " (low)"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), stock, p.MinStock)
			}
			return nil
		},
	}
}

func newProductRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <product-id>",
		Short: "Delete a product and its templates",
		Long: `Delete a product.

Templates of the product are deleted first (subtask templates before their
parents), then its ingredient links. A product that appears on an order
cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteProductUseCase().Execute(cmd.Context(), usecase.DeleteProductInput{ProductID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s (%d template(s))\n", args[0], out.TemplatesDeleted)
			return nil
		},
	}
}

func newProductLinkCommand(c *app.Container) *cobra.Command {
	var quantity string

	cmd := &cobra.Command{
		Use:   "link <product-id> <ingredient-id>",
		Short: "Record that a product uses an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseDecimal("quantity", quantity)
			if err != nil {
				return err
			}
			out, err := c.LinkIngredientUseCase().Execute(cmd.Context(), usecase.LinkIngredientInput{
				ProductID:    args[0],
				IngredientID: args[1],
				Quantity:     qty,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Linked ingredient %s to product %s (quantity %s)\n",
				out.Link.IngredientID, out.Link.ProductID, out.Link.Quantity)
			return nil
		},
	}

	cmd.Flags().StringVar(&quantity, "quantity", "1", "Amount used per product unit")
	return cmd
}

func newProductTasksCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <product-id>",
		Short: "Show a product's templates, tasks and inherited ingredient templates",
		Long: `Show the work attached to a product.

Inherited rows are templates of the product's ingredients. They are shown
for reference only and are never turned into order tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ListProductTasksUseCase().Execute(cmd.Context(), usecase.ListProductTasksInput{ProductID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Product: %s (%s)\n\n", out.Product.Name, out.Product.ID)

			_, _ = fmt.Fprintln(w, "Templates:")
			for _, t := range out.Templates {
				indent := "  "
				if t.IsSubtask {
					indent = "    └─ "
				}
				_, _ = fmt.Fprintf(w, "%s%s (%s)\n", indent, t.Title, t.ID)
			}

			_, _ = fmt.Fprintln(w, "\nInherited from ingredients (read-only):")
			for _, it := range out.Inherited {
				_, _ = fmt.Fprintf(w, "  %s ← %s\n", it.Template.Title, it.Ingredient.Name)
			}

			_, _ = fmt.Fprintln(w, "\nTasks:")
			printTaskList(w, out.Tasks)
			return nil
		},
	}
}

// newIngredientCommand creates the ingredient command.
func newIngredientCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredient",
		Short: "Manage ingredients",
	}
	cmd.AddCommand(
		newIngredientAddCommand(c),
		newIngredientListCommand(c),
		newIngredientRmCommand(c),
	)
	return cmd
}

func newIngredientAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name  string
		Unit  string
		Stock int
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an ingredient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CreateIngredientUseCase().Execute(cmd.Context(), usecase.CreateIngredientInput{
				Name:  opts.Name,
				Unit:  opts.Unit,
				Stock: opts.Stock,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created ingredient %s (%s)\n", out.Ingredient.Name, out.Ingredient.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Ingredient name (required)")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "Unit of measure, e.g. kg")
	cmd.Flags().IntVar(&opts.Stock, "stock", 0, "Units in stock")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newIngredientListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingredients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListIngredientsUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tUNIT\tSTOCK")
			for _, i := range out.Ingredients {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", i.ID, i.Name, orDash(i.Unit), i.Stock)
			}
			return nil
		},
	}
}

func newIngredientRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <ingredient-id>",
		Short: "Delete an ingredient and its templates",
		Long: `Delete an ingredient and its templates.

Every template that references the ingredient is deleted together with its
subtask templates. This includes product templates that only list the
ingredient as provenance. Derived tasks are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteIngredientUseCase().Execute(cmd.Context(), usecase.DeleteIngredientInput{IngredientID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %s (%d template(s))\n", args[0], out.TemplatesDeleted)
			return nil
		},
	}
}
