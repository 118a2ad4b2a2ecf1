package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	OrderID         *string          // Filter by order (optional)
	ProductID       *string          // Filter by product (optional)
	ParentTaskID    *string          // Filter by parent task (optional)
	Status          *domain.Status   // Filter by status (optional)
	TaskType        *domain.TaskType // Filter by task type (optional)
	RootOnly        bool             // Only top-level tasks
	IncludeTerminal bool             // Include completed and cancelled tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Tasks matching the filter, oldest first
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching the given input criteria.
// Terminal tasks are hidden unless requested or filtered for explicitly.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Status != nil && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
	}
	if in.TaskType != nil && !in.TaskType.IsValid() {
		return nil, fmt.Errorf("invalid task type: %q", *in.TaskType)
	}

	tasks, err := uc.tasks.FindTasks(ctx, domain.TaskFilter{
		OrderID:      in.OrderID,
		ProductID:    in.ProductID,
		ParentTaskID: in.ParentTaskID,
		Status:       in.Status,
		TaskType:     in.TaskType,
		RootOnly:     in.RootOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	if !in.IncludeTerminal && in.Status == nil {
		tasks = filterActiveOnly(tasks)
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}

// filterActiveOnly drops tasks in a terminal status.
func filterActiveOnly(tasks []*domain.Task) []*domain.Task {
	result := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Status.IsTerminal() {
			result = append(result, t)
		}
	}
	return result
}
