package domain

import "time"

// TaskTemplate is a reusable definition of work attached to a product or
// an ingredient. Templates are never tied to an order; the deriver turns
// product templates into tasks.
// Fields are ordered to minimize memory padding.
type TaskTemplate struct {
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	ProductID        *string   `db:"product_id" json:"productId,omitempty"`
	IngredientID     *string   `db:"ingredient_id" json:"ingredientId,omitempty"`
	ParentTemplateID *string   `db:"parent_template_id" json:"parentTemplateId,omitempty"`
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description,omitempty"`
	Priority         Priority  `db:"priority" json:"priority,omitempty"`
	IsSubtask        bool      `db:"is_subtask" json:"isSubtask"`
}

// IsIngredientOnly returns true if the template belongs to an ingredient
// and not to a product. Such templates are documentation only and are
// never materialized into order tasks.
func (t *TaskTemplate) IsIngredientOnly() bool {
	return t.ProductID == nil && t.IngredientID != nil
}

// TemplateOrigin tells what a template belongs to.
type TemplateOrigin string

const (
	OriginProduct    TemplateOrigin = "product"
	OriginIngredient TemplateOrigin = "ingredient"
)

// Origin returns what owns the template. A template with a product belongs
// to the product; its ingredient, if any, is provenance only.
func (t *TaskTemplate) Origin() TemplateOrigin {
	if t.ProductID != nil {
		return OriginProduct
	}
	return OriginIngredient
}

// OriginID returns the ID of the owning product or ingredient.
func (t *TaskTemplate) OriginID() string {
	if t.ProductID != nil {
		return *t.ProductID
	}
	return StringValue(t.IngredientID)
}

// Validate checks the template's own invariants. Checks that need the
// store (parent existence, parent origin) live in the use case.
func (t *TaskTemplate) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if t.ProductID == nil && t.IngredientID == nil {
		return ErrTemplateOrigin
	}
	if t.IsSubtask != (t.ParentTemplateID != nil) {
		return ErrSubtaskParent
	}
	return nil
}

// SameOrigin returns true if both templates belong to the same product or
// the same ingredient.
func (t *TaskTemplate) SameOrigin(other *TaskTemplate) bool {
	return t.Origin() == other.Origin() && t.OriginID() == other.OriginID()
}

// TemplateFilter specifies criteria for listing templates.
// Nil pointer fields do not constrain the result.
type TemplateFilter struct {
	ProductID        *string
	IngredientID     *string
	ParentTemplateID *string
	IsSubtask        *bool
}
