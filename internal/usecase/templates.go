// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// CreateTemplateInput contains the parameters for creating a task template.
// Fields are ordered to minimize memory padding.
type CreateTemplateInput struct {
	ProductID        *string         // Owning product (exactly one origin is required)
	IngredientID     *string         // Owning ingredient
	ParentTemplateID *string         // Parent template; makes this a subtask template
	Title            string          // Template title (required)
	Description      string          // Template description (optional)
	Priority         domain.Priority // low, medium, high or empty
}

// CreateTemplateOutput contains the created template.
type CreateTemplateOutput struct {
	Template *domain.TaskTemplate
}

// CreateTemplate is the use case for adding a task template.
type CreateTemplate struct {
	templates domain.TemplateRepository
	catalog   domain.CatalogRepository
	clock     domain.Clock
}

// NewCreateTemplate creates a new CreateTemplate use case.
func NewCreateTemplate(templates domain.TemplateRepository, catalog domain.CatalogRepository, clock domain.Clock) *CreateTemplate {
	return &CreateTemplate{templates: templates, catalog: catalog, clock: clock}
}

// Execute validates and stores the template.
// A subtask template given without an origin inherits its parent's.
func (uc *CreateTemplate) Execute(ctx context.Context, in CreateTemplateInput) (*CreateTemplateOutput, error) {
	tmpl := &domain.TaskTemplate{
		Title:            in.Title,
		Description:      in.Description,
		Priority:         in.Priority,
		ProductID:        in.ProductID,
		IngredientID:     in.IngredientID,
		ParentTemplateID: in.ParentTemplateID,
		IsSubtask:        in.ParentTemplateID != nil,
		CreatedAt:        uc.clock.Now(),
	}

	var parent *domain.TaskTemplate
	if in.ParentTemplateID != nil {
		var err error
		parent, err = shared.GetTemplate(ctx, uc.templates, *in.ParentTemplateID)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		if tmpl.ProductID == nil && tmpl.IngredientID == nil {
			tmpl.ProductID = parent.ProductID
			tmpl.IngredientID = parent.IngredientID
		}
	}

	if err := insertTemplate(ctx, uc.templates, uc.catalog, tmpl, parent); err != nil {
		return nil, err
	}
	return &CreateTemplateOutput{Template: tmpl}, nil
}

// insertTemplate enforces the template invariants and stores tmpl.
// parent must be the template referenced by tmpl.ParentTemplateID, or nil.
func insertTemplate(ctx context.Context, templates domain.TemplateRepository, catalog domain.CatalogRepository, tmpl, parent *domain.TaskTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}
	if tmpl.ProductID != nil {
		if _, err := shared.GetProduct(ctx, catalog, *tmpl.ProductID); err != nil {
			return err
		}
	}
	if tmpl.IngredientID != nil {
		if _, err := shared.GetIngredient(ctx, catalog, *tmpl.IngredientID); err != nil {
			return err
		}
	}
	if parent != nil {
		if parent.IsSubtask {
			return domain.ErrNestedSubtask
		}
		if !tmpl.SameOrigin(parent) {
			return fmt.Errorf("%w: parent belongs to a different origin", domain.ErrTemplateOrigin)
		}
	}
	if err := templates.CreateTemplate(ctx, tmpl); err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// ListTemplatesInput contains the parameters for listing templates.
type ListTemplatesInput struct {
	Filter domain.TemplateFilter
}

// ListTemplatesOutput contains the listed templates.
type ListTemplatesOutput struct {
	Templates []*domain.TaskTemplate // Oldest first
}

// ListTemplates is the use case for listing templates.
type ListTemplates struct {
	templates domain.TemplateRepository
}

// NewListTemplates creates a new ListTemplates use case.
func NewListTemplates(templates domain.TemplateRepository) *ListTemplates {
	return &ListTemplates{templates: templates}
}

// Execute lists templates matching the filter.
func (uc *ListTemplates) Execute(ctx context.Context, in ListTemplatesInput) (*ListTemplatesOutput, error) {
	templates, err := uc.templates.ListTemplates(ctx, in.Filter)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return &ListTemplatesOutput{Templates: templates}, nil
}

// DeleteTemplateInput contains the parameters for deleting a template.
type DeleteTemplateInput struct {
	TemplateID string // Template to delete (required)
}

// DeleteTemplateOutput reports how many templates were removed.
type DeleteTemplateOutput struct {
	Deleted int // The template plus its subtask templates
}

// DeleteTemplate is the use case for removing a template and its children.
// Tasks already derived from the template are not touched.
type DeleteTemplate struct {
	store domain.Store
}

// NewDeleteTemplate creates a new DeleteTemplate use case.
func NewDeleteTemplate(store domain.Store) *DeleteTemplate {
	return &DeleteTemplate{store: store}
}

// Execute deletes child templates first, then the template, in one transaction.
func (uc *DeleteTemplate) Execute(ctx context.Context, in DeleteTemplateInput) (*DeleteTemplateOutput, error) {
	out := &DeleteTemplateOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetTemplate(ctx, tx, in.TemplateID); err != nil {
			return err
		}
		var err error
		out.Deleted, err = shared.DeleteTemplateTree(ctx, tx, in.TemplateID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InheritedTemplate is a template of an ingredient a product uses.
// It is shown for reference only and never turned into tasks.
type InheritedTemplate struct {
	Template   *domain.TaskTemplate
	Ingredient *domain.Ingredient
}

// ListProductTasksInput contains the parameters for listing a product's work.
type ListProductTasksInput struct {
	ProductID string // Product (required)
}

// ListProductTasksOutput contains a product's tasks and inherited templates.
type ListProductTasksOutput struct {
	Product   *domain.Product
	Tasks     []*domain.Task         // Tasks derived for the product across all orders
	Templates []*domain.TaskTemplate // The product's own templates
	Inherited []InheritedTemplate    // Templates of linked ingredients
}

// ListProductTasks is the use case for showing everything scheduled for a product.
type ListProductTasks struct {
	store domain.Store
}

// NewListProductTasks creates a new ListProductTasks use case.
func NewListProductTasks(store domain.Store) *ListProductTasks {
	return &ListProductTasks{store: store}
}

// Execute collects the product's tasks, own templates and the templates of
// every linked ingredient.
func (uc *ListProductTasks) Execute(ctx context.Context, in ListProductTasksInput) (*ListProductTasksOutput, error) {
	product, err := shared.GetProduct(ctx, uc.store, in.ProductID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.store.FindTasks(ctx, domain.TaskFilter{ProductID: &product.ID})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	own, err := uc.store.ListTemplates(ctx, domain.TemplateFilter{ProductID: &product.ID})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	links, err := uc.store.ListProductIngredients(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list product ingredients: %w", err)
	}

	var inherited []InheritedTemplate
	for _, link := range links {
		ing, err := shared.GetIngredient(ctx, uc.store, link.IngredientID)
		if err != nil {
			return nil, err
		}
		templates, err := uc.store.ListTemplates(ctx, domain.TemplateFilter{IngredientID: &ing.ID})
		if err != nil {
			return nil, fmt.Errorf("list ingredient templates: %w", err)
		}
		for _, t := range templates {
			if !t.IsIngredientOnly() {
				continue
			}
			inherited = append(inherited, InheritedTemplate{Template: t, Ingredient: ing})
		}
	}

	return &ListProductTasksOutput{
		Product:   product,
		Tasks:     tasks,
		Templates: own,
		Inherited: inherited,
	}, nil
}
