package sqlstore

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

const templateColumns = `id, product_id, ingredient_id, parent_template_id,
	title, description, priority, is_subtask, created_at`

// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	var t domain.TaskTemplate
	found, err := s.get(ctx, &t, `SELECT `+templateColumns+` FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

// ListTemplates retrieves templates matching the filter in insertion order.
func (s *Store) ListTemplates(ctx context.Context, f domain.TemplateFilter) ([]*domain.TaskTemplate, error) {
	w := &where{}
	eq(w, "product_id", f.ProductID)
	eq(w, "ingredient_id", f.IngredientID)
	eq(w, "parent_template_id", f.ParentTemplateID)
	eq(w, "is_subtask", f.IsSubtask)

	var out []*domain.TaskTemplate
	err := s.selectAll(ctx, &out, `SELECT `+templateColumns+` FROM task_templates`+w.String()+` ORDER BY rowid`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// CreateTemplate inserts a template, assigning an ID if it has none.
func (s *Store) CreateTemplate(ctx context.Context, t *domain.TaskTemplate) error {
	if t.ID == "" {
		t.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO task_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProductID, t.IngredientID, t.ParentTemplateID,
		t.Title, t.Description, t.Priority, t.IsSubtask, utc(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template. Subtask templates must be deleted first.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM task_templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
