package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields will be updated.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title         *string          // New title (nil = no change)
	Description   *string          // New description (nil = no change)
	Assignee      *string          // New assignee (nil = no change, "" = unassign)
	Priority      *domain.Priority // New priority (nil = no change)
	Deadline      *time.Time       // New deadline (nil = no change)
	TaskID        string           // Task to edit (required)
	ClearDeadline bool             // Remove the deadline
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, clock domain.Clock) *EditTask {
	return &EditTask{tasks: tasks, clock: clock}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	// Validate that at least one field is being updated
	if in.Title == nil && in.Description == nil && in.Assignee == nil &&
		in.Priority == nil && in.Deadline == nil && !in.ClearDeadline {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Title != nil && *in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Assignee != nil {
		task.Assignee = *in.Assignee
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.ClearDeadline {
		task.Deadline = nil
	} else if in.Deadline != nil {
		task.Deadline = in.Deadline
	}
	task.UpdatedAt = uc.clock.Now()

	if err := uc.tasks.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &EditTaskOutput{Task: task}, nil
}
