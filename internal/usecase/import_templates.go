// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

// ImportTemplatesInput contains the parameters for importing a catalog file.
type ImportTemplatesInput struct {
	Content []byte // Catalog file content
}

// ImportTemplatesOutput counts what the import created.
type ImportTemplatesOutput struct {
	Products    int
	Ingredients int
	Links       int
	Templates   int
	Skipped     int // Templates that already existed
}

// ImportTemplates is the use case for loading products, ingredients and
// template trees from a catalog file. Records are matched by name and
// templates by title within their origin; only missing ones are created,
// so importing the same file twice changes nothing.
type ImportTemplates struct {
	store  domain.Store
	codec  domain.CatalogCodec
	clock  domain.Clock
	logger domain.Logger
}

// NewImportTemplates creates a new ImportTemplates use case.
func NewImportTemplates(store domain.Store, codec domain.CatalogCodec, clock domain.Clock, logger domain.Logger) *ImportTemplates {
	return &ImportTemplates{store: store, codec: codec, clock: clock, logger: logger}
}

// Execute decodes the catalog and applies it in one transaction.
func (uc *ImportTemplates) Execute(ctx context.Context, in ImportTemplatesInput) (*ImportTemplatesOutput, error) {
	spec, err := uc.codec.Decode(in.Content)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	out := &ImportTemplatesOutput{}
	err = uc.store.WithinTx(ctx, func(tx domain.Store) error {
		for _, ing := range spec.Ingredients {
			if err := uc.importIngredient(ctx, tx, ing, out); err != nil {
				return fmt.Errorf("ingredient %q: %w", ing.Name, err)
			}
		}
		for _, p := range spec.Products {
			if err := uc.importProduct(ctx, tx, p, out); err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("", "catalog", fmt.Sprintf("imported %d products, %d ingredients, %d templates (%d skipped)",
			out.Products, out.Ingredients, out.Templates, out.Skipped))
	}
	return out, nil
}

func (uc *ImportTemplates) importIngredient(ctx context.Context, tx domain.Store, spec domain.IngredientSpec, out *ImportTemplatesOutput) error {
	ing, err := tx.FindIngredientByName(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("find ingredient: %w", err)
	}
	if ing == nil {
		ing, err = createIngredient(ctx, tx, uc.clock, spec)
		if err != nil {
			return err
		}
		out.Ingredients++
	}
	return uc.importTemplates(ctx, tx, nil, &ing.ID, spec.Templates, out)
}

func (uc *ImportTemplates) importProduct(ctx context.Context, tx domain.Store, spec domain.ProductSpec, out *ImportTemplatesOutput) error {
	p, err := tx.FindProductByName(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		p, err = createProduct(ctx, tx, uc.clock, spec)
		if err != nil {
			return err
		}
		out.Products++
	}

	for _, use := range spec.Ingredients {
		ing, err := tx.FindIngredientByName(ctx, use.Name)
		if err != nil {
			return fmt.Errorf("find ingredient: %w", err)
		}
		if ing == nil {
			return fmt.Errorf("%w: %q", domain.ErrIngredientNotFound, use.Name)
		}
		if err := tx.LinkIngredient(ctx, &domain.ProductIngredient{
			ProductID:    p.ID,
			IngredientID: ing.ID,
			Quantity:     use.Quantity,
		}); err != nil {
			return fmt.Errorf("link ingredient: %w", err)
		}
		out.Links++
	}
	return uc.importTemplates(ctx, tx, &p.ID, nil, spec.Templates, out)
}

// importTemplates creates the missing top-level templates of one origin and
// the missing subtask templates below each of them.
func (uc *ImportTemplates) importTemplates(ctx context.Context, tx domain.Store, productID, ingredientID *string, specs []domain.TemplateSpec, out *ImportTemplatesOutput) error {
	existing, err := templatesByTitle(ctx, tx, domain.TemplateFilter{
		ProductID:    productID,
		IngredientID: ingredientID,
		IsSubtask:    domain.Ptr(false),
	})
	if err != nil {
		return err
	}

	for _, spec := range specs {
		parent, ok := existing[spec.Title]
		if ok {
			out.Skipped++
		} else {
			parent = &domain.TaskTemplate{
				Title:        spec.Title,
				Description:  spec.Description,
				Priority:     spec.Priority,
				ProductID:    productID,
				IngredientID: ingredientID,
				CreatedAt:    uc.clock.Now(),
			}
			if err := insertTemplate(ctx, tx, tx, parent, nil); err != nil {
				return fmt.Errorf("template %q: %w", spec.Title, err)
			}
			existing[spec.Title] = parent
			out.Templates++
		}

		subs, err := templatesByTitle(ctx, tx, domain.TemplateFilter{ParentTemplateID: &parent.ID})
		if err != nil {
			return err
		}
		for _, sub := range spec.Subtasks {
			if _, ok := subs[sub.Title]; ok {
				out.Skipped++
				continue
			}
			child := &domain.TaskTemplate{
				Title:            sub.Title,
				Description:      sub.Description,
				Priority:         sub.Priority,
				ProductID:        productID,
				IngredientID:     ingredientID,
				ParentTemplateID: &parent.ID,
				IsSubtask:        true,
				CreatedAt:        uc.clock.Now(),
			}
			if err := insertTemplate(ctx, tx, tx, child, parent); err != nil {
				return fmt.Errorf("template %q: subtask %q: %w", spec.Title, sub.Title, err)
			}
			subs[sub.Title] = child
			out.Templates++
		}
	}
	return nil
}

func templatesByTitle(ctx context.Context, templates domain.TemplateRepository, filter domain.TemplateFilter) (map[string]*domain.TaskTemplate, error) {
	list, err := templates.ListTemplates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	byTitle := make(map[string]*domain.TaskTemplate, len(list))
	for _, t := range list {
		if _, ok := byTitle[t.Title]; !ok {
			byTitle[t.Title] = t
		}
	}
	return byTitle, nil
}

// ExportTemplatesOutput contains the rendered catalog file.
type ExportTemplatesOutput struct {
	Spec    *domain.CatalogSpec
	Content []byte
}

// ExportTemplates is the use case for writing the catalog to a file format
// that ImportTemplates reads back.
type ExportTemplates struct {
	store domain.Store
	codec domain.CatalogCodec
}

// NewExportTemplates creates a new ExportTemplates use case.
func NewExportTemplates(store domain.Store, codec domain.CatalogCodec) *ExportTemplates {
	return &ExportTemplates{store: store, codec: codec}
}

// Execute collects every ingredient and product with their templates.
func (uc *ExportTemplates) Execute(ctx context.Context) (*ExportTemplatesOutput, error) {
	spec := &domain.CatalogSpec{}

	ingredients, err := uc.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	names := make(map[string]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
		templates, err := uc.exportTemplates(ctx, domain.TemplateFilter{IngredientID: &ing.ID})
		if err != nil {
			return nil, err
		}
		spec.Ingredients = append(spec.Ingredients, domain.IngredientSpec{
			Name:      ing.Name,
			Unit:      ing.Unit,
			Stock:     ing.Stock,
			Templates: templates,
		})
	}

	products, err := uc.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for _, p := range products {
		links, err := uc.store.ListProductIngredients(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list product ingredients: %w", err)
		}
		uses := make([]domain.IngredientUse, 0, len(links))
		for _, l := range links {
			uses = append(uses, domain.IngredientUse{Name: names[l.IngredientID], Quantity: l.Quantity})
		}
		templates, err := uc.exportTemplates(ctx, domain.TemplateFilter{ProductID: &p.ID})
		if err != nil {
			return nil, err
		}
		spec.Products = append(spec.Products, domain.ProductSpec{
			Name:        p.Name,
			Price:       p.Price,
			Stock:       p.Stock,
			MinStock:    p.MinStock,
			Ingredients: uses,
			Templates:   templates,
		})
	}

	content, err := uc.codec.Encode(spec)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return &ExportTemplatesOutput{Spec: spec, Content: content}, nil
}

func (uc *ExportTemplates) exportTemplates(ctx context.Context, origin domain.TemplateFilter) ([]domain.TemplateSpec, error) {
	origin.IsSubtask = domain.Ptr(false)
	tops, err := uc.store.ListTemplates(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	specs := make([]domain.TemplateSpec, 0, len(tops))
	for _, t := range tops {
		subs, err := uc.store.ListTemplates(ctx, domain.TemplateFilter{ParentTemplateID: &t.ID})
		if err != nil {
			return nil, fmt.Errorf("list subtask templates: %w", err)
		}
		spec := domain.TemplateSpec{Title: t.Title, Description: t.Description, Priority: t.Priority}
		for _, s := range subs {
			spec.Subtasks = append(spec.Subtasks, domain.TemplateSpec{Title: s.Title, Description: s.Description, Priority: s.Priority})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
