package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newTemplateCommand creates the template command.
func newTemplateCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage task templates",
		Long: `Manage task templates.

Templates attached to a product are turned into tasks when the product is
ordered. Templates attached only to an ingredient are documentation and
never become tasks.`,
	}
	cmd.AddCommand(
		newTemplateAddCommand(c),
		newTemplateListCommand(c),
		newTemplateRmCommand(c),
		newTemplateImportCommand(c),
		newTemplateExportCommand(c),
	)
	return cmd
}

func newTemplateAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title        string
		Description  string
		Priority     string
		ProductID    string
		IngredientID string
		ParentID     string
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task template",
		Long: `Create a task template.

A template belongs to a product (--product) or an ingredient (--ingredient).
With both, the product owns it and the ingredient is recorded on derived
tasks. --parent makes it a subtask template of a top-level template with
the same owner.

Examples:
  shopdesk template add --product <id> --title Prepare --priority high
  shopdesk template add --product <id> --parent <template-id> --title Wash --ingredient <id>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.CreateTemplateInput{
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    domain.Priority(opts.Priority),
			}
			if opts.ProductID != "" {
				in.ProductID = &opts.ProductID
			}
			if opts.IngredientID != "" {
				in.IngredientID = &opts.IngredientID
			}
			if opts.ParentID != "" {
				in.ParentTemplateID = &opts.ParentID
			}

			out, err := c.CreateTemplateUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created template %s (%s)\n", out.Template.Title, out.Template.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Template title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Template description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: low, medium or high")
	cmd.Flags().StringVar(&opts.ProductID, "product", "", "Owning product")
	cmd.Flags().StringVar(&opts.IngredientID, "ingredient", "", "Owning ingredient, or provenance when --product is set")
	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "Parent template (creates a subtask template)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTemplateListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		ProductID    string
		IngredientID string
		ParentID     string
		TopLevel     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List task templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter domain.TemplateFilter
			if opts.ProductID != "" {
				filter.ProductID = &opts.ProductID
			}
			if opts.IngredientID != "" {
				filter.IngredientID = &opts.IngredientID
			}
			if opts.ParentID != "" {
				filter.ParentTemplateID = &opts.ParentID
			}
			if opts.TopLevel {
				filter.IsSubtask = domain.Ptr(false)
			}

			out, err := c.ListTemplatesUseCase().Execute(cmd.Context(), usecase.ListTemplatesInput{Filter: filter})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tORIGIN\tPARENT\tPRIORITY\tTITLE")
			for _, t := range out.Templates {
				parent := "-"
				if t.ParentTemplateID != nil {
					parent = domain.ShortID(*t.ParentTemplateID)
				}
				origin := fmt.Sprintf("%s:%s", t.Origin(), domain.ShortID(t.OriginID()))
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, origin, parent, orDash(string(t.Priority)), t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ProductID, "product", "", "Only templates of this product")
	cmd.Flags().StringVar(&opts.IngredientID, "ingredient", "", "Only templates of this ingredient")
	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "Only subtask templates of this template")
	cmd.Flags().BoolVar(&opts.TopLevel, "top-level", false, "Only top-level templates")
	return cmd
}

func newTemplateRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <template-id>",
		Short: "Delete a template and its subtask templates",
		Long: `Delete a template. Its subtask templates are deleted first.
Tasks already derived from the template are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTemplateUseCase().Execute(cmd.Context(), usecase.DeleteTemplateInput{TemplateID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d template(s)\n", out.Deleted)
			return nil
		},
	}
}

func newTemplateImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import products, ingredients and templates from a YAML catalog",
		Long: `Import a YAML catalog file. Use - to read from stdin.

Products, ingredients and templates are matched by name (templates by
title within their owner); anything that already exists is left unchanged.

File format:
  ingredients:
    - name: Flour
      unit: kg
      templates:
        - title: Sift flour
  products:
    - name: Bread
      price: "4.50"
      ingredients: [{name: Flour, quantity: "0.5"}]
      templates:
        - title: Prepare
          priority: high
          subtasks:
            - title: Wash
        - title: Package`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}

			out, err := c.ImportTemplatesUseCase().Execute(cmd.Context(), usecase.ImportTemplatesInput{Content: content})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"Imported %d product(s), %d ingredient(s), %d link(s), %d template(s) (%d already present)\n",
				out.Products, out.Ingredients, out.Links, out.Templates, out.Skipped)
			return nil
		},
	}
}

func newTemplateExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportTemplatesUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out.Content)
				return err
			}
			if err := os.WriteFile(output, out.Content, 0o600); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
