// Package domain contains core business entities and interfaces.
package domain

import "time"

// TaskType tells whether a task was created by a user or by the deriver.
type TaskType string

const (
	TaskTypeManual    TaskType = "manual"    // Created directly by a user
	TaskTypeAutomatic TaskType = "automatic" // Derived from a template when an order was placed
)

// IsValid returns true if the task type is a known value.
func (t TaskType) IsValid() bool {
	return t == TaskTypeManual || t == TaskTypeAutomatic
}

// Priority is the urgency of a task or template.
// The zero value means no priority was set.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is empty or one of low, medium, high.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task is a concrete, order-scoped unit of work.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	Deadline     *time.Time `db:"deadline" json:"deadline,omitempty"`
	ParentTaskID *string    `db:"parent_task_id" json:"parentTaskId,omitempty"` // nil = top-level task
	OrderID      *string    `db:"order_id" json:"orderId,omitempty"`            // nil only for manual tasks
	ProductID    *string    `db:"product_id" json:"productId,omitempty"`        // Provenance
	IngredientID *string    `db:"ingredient_id" json:"ingredientId,omitempty"`  // Provenance
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description,omitempty"`
	Assignee     string     `db:"assignee" json:"assignee,omitempty"`
	Status       Status     `db:"status" json:"status"`
	Priority     Priority   `db:"priority" json:"priority,omitempty"`
	TaskType     TaskType   `db:"task_type" json:"taskType"`
}

// IsRoot returns true if this is a top-level task (no parent).
func (t *Task) IsRoot() bool {
	return t.ParentTaskID == nil
}

// IsAutomatic returns true if the task was created by the deriver.
func (t *Task) IsAutomatic() bool {
	return t.TaskType == TaskTypeAutomatic
}

// TaskFilter specifies criteria for finding tasks.
// Nil pointer fields do not constrain the result.
type TaskFilter struct {
	OrderID      *string
	ProductID    *string
	ParentTaskID *string
	Title        *string
	Status       *Status
	TaskType     *TaskType
	RootOnly     bool // Only tasks without a parent
}

// Ptr returns a pointer to v. Handy for optional filter and entity fields.
func Ptr[T any](v T) *T {
	return &v
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
