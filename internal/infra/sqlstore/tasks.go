package sqlstore

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

const taskColumns = `id, order_id, product_id, ingredient_id, parent_task_id,
	title, description, assignee, status, priority, task_type,
	deadline, created_at, updated_at`

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	found, err := s.get(ctx, &t, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

// FindTasks retrieves tasks matching the filter in insertion order.
func (s *Store) FindTasks(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	w := &where{}
	eq(w, "order_id", f.OrderID)
	eq(w, "product_id", f.ProductID)
	eq(w, "parent_task_id", f.ParentTaskID)
	eq(w, "title", f.Title)
	eq(w, "status", f.Status)
	eq(w, "task_type", f.TaskType)
	if f.RootOnly {
		w.raw("parent_task_id IS NULL")
	}

	var out []*domain.Task
	err := s.selectAll(ctx, &out, `SELECT `+taskColumns+` FROM tasks`+w.String()+` ORDER BY rowid`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return out, nil
}

// CreateTask inserts a task, assigning an ID if it has none.
// A second automatic task for the same order, product, title and parent
// fails with domain.ErrDuplicateDerivation.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OrderID, t.ProductID, t.IngredientID, t.ParentTaskID,
		t.Title, t.Description, t.Assignee, t.Status, t.Priority, t.TaskType,
		utcPtr(t.Deadline), utc(t.CreatedAt), utc(t.UpdatedAt))
	if isUniqueViolation(err) {
		return domain.ErrDuplicateDerivation
	}
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateTask writes the mutable fields of a task.
func (s *Store) UpdateTask(ctx context.Context, t *domain.Task) error {
	err := s.execOne(ctx, domain.ErrTaskNotFound, `UPDATE tasks SET
		title = ?, description = ?, assignee = ?, status = ?, priority = ?,
		deadline = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.Assignee, t.Status, t.Priority,
		utcPtr(t.Deadline), utc(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task. Its subtasks go with it through the
// parent_task_id cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
