// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// CreateProductInput contains the parameters for creating a product.
type CreateProductInput struct {
	Price    decimal.Decimal // Unit price, must not be negative
	Name     string          // Unique product name (required)
	Stock    int             // Units in stock
	MinStock int             // Restock threshold
}

// CreateProductOutput contains the created product.
type CreateProductOutput struct {
	Product *domain.Product
}

// CreateProduct is the use case for adding a product to the catalog.
type CreateProduct struct {
	catalog domain.CatalogRepository
	clock   domain.Clock
}

// NewCreateProduct creates a new CreateProduct use case.
func NewCreateProduct(catalog domain.CatalogRepository, clock domain.Clock) *CreateProduct {
	return &CreateProduct{catalog: catalog, clock: clock}
}

// Execute validates and stores the product.
func (uc *CreateProduct) Execute(ctx context.Context, in CreateProductInput) (*CreateProductOutput, error) {
	p, err := createProduct(ctx, uc.catalog, uc.clock, domain.ProductSpec{
		Name:     in.Name,
		Price:    in.Price,
		Stock:    in.Stock,
		MinStock: in.MinStock,
	})
	if err != nil {
		return nil, err
	}
	return &CreateProductOutput{Product: p}, nil
}

func createProduct(ctx context.Context, catalog domain.CatalogRepository, clock domain.Clock, spec domain.ProductSpec) (*domain.Product, error) {
	if spec.Name == "" {
		return nil, domain.ErrEmptyName
	}
	if spec.Price.IsNegative() {
		return nil, domain.ErrNegativePrice
	}
	existing, err := catalog.FindProductByName(ctx, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("product %q: %w", spec.Name, domain.ErrDuplicateName)
	}
	p := &domain.Product{
		Name:      spec.Name,
		Price:     spec.Price,
		Stock:     spec.Stock,
		MinStock:  spec.MinStock,
		CreatedAt: clock.Now(),
	}
	if err := catalog.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// ListProductsOutput contains every product ordered by name.
type ListProductsOutput struct {
	Products []*domain.Product
}

// ListProducts is the use case for listing the catalog's products.
type ListProducts struct {
	catalog domain.CatalogRepository
}

// NewListProducts creates a new ListProducts use case.
func NewListProducts(catalog domain.CatalogRepository) *ListProducts {
	return &ListProducts{catalog: catalog}
}

// Execute lists all products.
func (uc *ListProducts) Execute(ctx context.Context) (*ListProductsOutput, error) {
	products, err := uc.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ListProductsOutput{Products: products}, nil
}

// DeleteProductInput contains the parameters for deleting a product.
type DeleteProductInput struct {
	ProductID string // Product to delete (required)
}

// DeleteProductOutput reports what was removed with the product.
type DeleteProductOutput struct {
	TemplatesDeleted int
}

// DeleteProduct is the use case for removing a product with its templates.
// Products still referenced by order items cannot be deleted.
type DeleteProduct struct {
	store domain.Store
}

// NewDeleteProduct creates a new DeleteProduct use case.
func NewDeleteProduct(store domain.Store) *DeleteProduct {
	return &DeleteProduct{store: store}
}

// Execute deletes the product's templates (children first), its ingredient
// links and the product itself in one transaction.
func (uc *DeleteProduct) Execute(ctx context.Context, in DeleteProductInput) (*DeleteProductOutput, error) {
	out := &DeleteProductOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetProduct(ctx, tx, in.ProductID); err != nil {
			return err
		}
		n, err := tx.CountProductItems(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("count order items: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w (%d items)", domain.ErrProductInUse, n)
		}
		out.TemplatesDeleted, err = shared.DeleteOriginTemplates(ctx, tx, domain.TemplateFilter{ProductID: &in.ProductID})
		if err != nil {
			return err
		}
		if err := tx.DeleteProduct(ctx, in.ProductID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIngredientInput contains the parameters for creating an ingredient.
type CreateIngredientInput struct {
	Name  string // Unique ingredient name (required)
	Unit  string // Unit of measure (optional)
	Stock int    // Units in stock
}

// CreateIngredientOutput contains the created ingredient.
type CreateIngredientOutput struct {
	Ingredient *domain.Ingredient
}

// CreateIngredient is the use case for adding an ingredient.
type CreateIngredient struct {
	catalog domain.CatalogRepository
	clock   domain.Clock
}

// NewCreateIngredient creates a new CreateIngredient use case.
func NewCreateIngredient(catalog domain.CatalogRepository, clock domain.Clock) *CreateIngredient {
	return &CreateIngredient{catalog: catalog, clock: clock}
}

// Execute validates and stores the ingredient.
func (uc *CreateIngredient) Execute(ctx context.Context, in CreateIngredientInput) (*CreateIngredientOutput, error) {
	i, err := createIngredient(ctx, uc.catalog, uc.clock, domain.IngredientSpec{
		Name:  in.Name,
		Unit:  in.Unit,
		Stock: in.Stock,
	})
	if err != nil {
		return nil, err
	}
	return &CreateIngredientOutput{Ingredient: i}, nil
}

func createIngredient(ctx context.Context, catalog domain.CatalogRepository, clock domain.Clock, spec domain.IngredientSpec) (*domain.Ingredient, error) {
	if spec.Name == "" {
		return nil, domain.ErrEmptyName
	}
	existing, err := catalog.FindIngredientByName(ctx, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("ingredient %q: %w", spec.Name, domain.ErrDuplicateName)
	}
	i := &domain.Ingredient{
		Name:      spec.Name,
		Unit:      spec.Unit,
		Stock:     spec.Stock,
		CreatedAt: clock.Now(),
	}
	if err := catalog.CreateIngredient(ctx, i); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return i, nil
}

// ListIngredientsOutput contains every ingredient ordered by name.
type ListIngredientsOutput struct {
	Ingredients []*domain.Ingredient
}

// ListIngredients is the use case for listing ingredients.
type ListIngredients struct {
	catalog domain.CatalogRepository
}

// NewListIngredients creates a new ListIngredients use case.
func NewListIngredients(catalog domain.CatalogRepository) *ListIngredients {
	return &ListIngredients{catalog: catalog}
}

// Execute lists all ingredients.
func (uc *ListIngredients) Execute(ctx context.Context) (*ListIngredientsOutput, error) {
	ingredients, err := uc.catalog.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return &ListIngredientsOutput{Ingredients: ingredients}, nil
}

// DeleteIngredientInput contains the parameters for deleting an ingredient.
type DeleteIngredientInput struct {
	IngredientID string // Ingredient to delete (required)
}

// DeleteIngredientOutput reports what was removed with the ingredient.
type DeleteIngredientOutput struct {
	TemplatesDeleted int
}

// DeleteIngredient is the use case for removing an ingredient with its templates.
type DeleteIngredient struct {
	store domain.Store
}

// NewDeleteIngredient creates a new DeleteIngredient use case.
func NewDeleteIngredient(store domain.Store) *DeleteIngredient {
	return &DeleteIngredient{store: store}
}

// Execute deletes the ingredient's templates (children first), its product
// links and the ingredient itself in one transaction. Product templates that
// carry the ingredient as provenance are deleted as well. Tasks that recorded
// the ingredient as provenance keep the reference.
func (uc *DeleteIngredient) Execute(ctx context.Context, in DeleteIngredientInput) (*DeleteIngredientOutput, error) {
	out := &DeleteIngredientOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetIngredient(ctx, tx, in.IngredientID); err != nil {
			return err
		}
		var err error
		out.TemplatesDeleted, err = shared.DeleteOriginTemplates(ctx, tx, domain.TemplateFilter{IngredientID: &in.IngredientID})
		if err != nil {
			return err
		}
		if err := tx.DeleteIngredient(ctx, in.IngredientID); err != nil {
			return fmt.Errorf("delete ingredient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LinkIngredientInput contains the parameters for linking an ingredient to a product.
type LinkIngredientInput struct {
	Quantity     decimal.Decimal // Amount used per product unit, must be positive
	ProductID    string          // Product (required)
	IngredientID string          // Ingredient (required)
}

// LinkIngredientOutput contains the stored link.
type LinkIngredientOutput struct {
	Link *domain.ProductIngredient
}

// LinkIngredient is the use case for recording that a product uses an ingredient.
type LinkIngredient struct {
	catalog domain.CatalogRepository
}

// NewLinkIngredient creates a new LinkIngredient use case.
func NewLinkIngredient(catalog domain.CatalogRepository) *LinkIngredient {
	return &LinkIngredient{catalog: catalog}
}

// Execute validates both sides and stores the link. Linking an existing
// pair updates its quantity.
func (uc *LinkIngredient) Execute(ctx context.Context, in LinkIngredientInput) (*LinkIngredientOutput, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := shared.GetProduct(ctx, uc.catalog, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := shared.GetIngredient(ctx, uc.catalog, in.IngredientID); err != nil {
		return nil, err
	}
	link := &domain.ProductIngredient{
		ProductID:    in.ProductID,
		IngredientID: in.IngredientID,
		Quantity:     in.Quantity,
	}
	if err := uc.catalog.LinkIngredient(ctx, link); err != nil {
		return nil, fmt.Errorf("link ingredient: %w", err)
	}
	return &LinkIngredientOutput{Link: link}, nil
}
