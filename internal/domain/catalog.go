package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is something the business sells.
// Fields are ordered to minimize memory padding.
type Product struct {
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	Price     decimal.Decimal `db:"price" json:"price"`
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Stock     int             `db:"stock" json:"stock"`
	MinStock  int             `db:"min_stock" json:"minStock"`
}

// BelowMinStock returns true if stock has fallen under the minimum.
func (p *Product) BelowMinStock() bool {
	return p.Stock < p.MinStock
}

// Ingredient is a component used to make products.
type Ingredient struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Unit      string    `db:"unit" json:"unit,omitempty"`
	Stock     int       `db:"stock" json:"stock"`
}

// ProductIngredient records that a product is made with an ingredient.
type ProductIngredient struct {
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	ProductID    string          `db:"product_id" json:"productId"`
	IngredientID string          `db:"ingredient_id" json:"ingredientId"`
}

// CatalogSpec is a portable description of products, ingredients and
// their template trees. It is what a catalog file decodes into.
type CatalogSpec struct {
	Ingredients []IngredientSpec
	Products    []ProductSpec
}

// IngredientSpec describes an ingredient and its templates.
type IngredientSpec struct {
	Name      string
	Unit      string
	Templates []TemplateSpec
	Stock     int
}

// ProductSpec describes a product, the ingredients it uses and its templates.
// Fields are ordered to minimize memory padding.
type ProductSpec struct {
	Price       decimal.Decimal
	Name        string
	Ingredients []IngredientUse
	Templates   []TemplateSpec
	Stock       int
	MinStock    int
}

// IngredientUse references an ingredient by name from a ProductSpec.
type IngredientUse struct {
	Quantity decimal.Decimal
	Name     string
}

// TemplateSpec describes a top-level template and its subtask templates.
// Subtask templates must not have subtasks of their own.
type TemplateSpec struct {
	Title       string
	Description string
	Priority    Priority
	Subtasks    []TemplateSpec
}

// Validate checks names, titles, priorities and nesting depth.
func (c *CatalogSpec) Validate() error {
	for _, ing := range c.Ingredients {
		if ing.Name == "" {
			return fmt.Errorf("ingredient: %w", ErrEmptyName)
		}
		if err := validateTemplateSpecs(ing.Templates); err != nil {
			return fmt.Errorf("ingredient %q: %w", ing.Name, err)
		}
	}
	for _, p := range c.Products {
		if p.Name == "" {
			return fmt.Errorf("product: %w", ErrEmptyName)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product %q: %w", p.Name, ErrNegativePrice)
		}
		for _, use := range p.Ingredients {
			if use.Name == "" {
				return fmt.Errorf("product %q: ingredient: %w", p.Name, ErrEmptyName)
			}
			if !use.Quantity.IsPositive() {
				return fmt.Errorf("product %q: ingredient %q: %w", p.Name, use.Name, ErrInvalidQuantity)
			}
		}
		if err := validateTemplateSpecs(p.Templates); err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
	}
	return nil
}

func validateTemplateSpecs(specs []TemplateSpec) error {
	for _, t := range specs {
		if t.Title == "" {
			return ErrEmptyTitle
		}
		if !t.Priority.IsValid() {
			return fmt.Errorf("template %q: %w", t.Title, ErrInvalidPriority)
		}
		for _, sub := range t.Subtasks {
			if sub.Title == "" {
				return fmt.Errorf("template %q: subtask: %w", t.Title, ErrEmptyTitle)
			}
			if !sub.Priority.IsValid() {
				return fmt.Errorf("template %q: subtask %q: %w", t.Title, sub.Title, ErrInvalidPriority)
			}
			if len(sub.Subtasks) > 0 {
				return fmt.Errorf("template %q: subtask %q: %w", t.Title, sub.Title, ErrNestedSubtask)
			}
		}
	}
	return nil
}
