// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a manual task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Deadline     *time.Time      // Due date (optional)
	OrderID      *string         // Order the task belongs to (optional)
	ParentTaskID *string         // Parent task (optional, nil = top-level task)
	Title        string          // Task title (required)
	Description  string          // Task description (optional)
	Assignee     string          // Person responsible (optional)
	Priority     domain.Priority // low, medium, high or empty
}

// CreateTaskOutput contains the created task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask is the use case for creating a manual task.
type CreateTask struct {
	tasks  domain.TaskRepository
	orders domain.OrderRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(tasks domain.TaskRepository, orders domain.OrderRepository, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{
		tasks:  tasks,
		orders: orders,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a manual task with the given input.
// A subtask without an explicit order joins its parent's order.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	// Validate title and priority
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	orderID := in.OrderID
	if in.ParentTaskID != nil {
		parent, err := uc.tasks.GetTask(ctx, *in.ParentTaskID)
		if err != nil {
			return nil, fmt.Errorf("get parent task: %w", err)
		}
		if parent == nil {
			return nil, domain.ErrParentNotFound
		}
		if orderID == nil {
			orderID = parent.OrderID
		}
	}
	if orderID != nil {
		if _, err := shared.GetOrder(ctx, uc.orders, *orderID); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	task := &domain.Task{
		Title:        in.Title,
		Description:  in.Description,
		Assignee:     in.Assignee,
		Priority:     in.Priority,
		Deadline:     in.Deadline,
		Status:       domain.StatusTodo,
		TaskType:     domain.TaskTypeManual,
		OrderID:      orderID,
		ParentTaskID: in.ParentTaskID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(domain.StringValue(orderID), "task", fmt.Sprintf("created: %q", in.Title))
	}
	return &CreateTaskOutput{Task: task}, nil
}
