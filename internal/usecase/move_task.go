package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// MoveTaskInput contains the parameters for changing a task's status.
type MoveTaskInput struct {
	TaskID string        // Task to move (required)
	Status domain.Status // Target status (empty = next status on the happy path)
}

// MoveTaskOutput contains the moved task.
type MoveTaskOutput struct {
	Task *domain.Task
	From domain.Status // Status before the move
}

// MoveTask is the use case for moving a task between statuses.
type MoveTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *MoveTask {
	return &MoveTask{tasks: tasks, clock: clock, logger: logger}
}

// Execute validates the transition and saves the new status.
func (uc *MoveTask) Execute(ctx context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	target := in.Status
	if target == "" {
		next, ok := task.Status.Next()
		if !ok {
			return nil, fmt.Errorf("%w: %s is final", domain.ErrInvalidTransition, task.Status)
		}
		target = next
	}
	if !task.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, task.Status, target)
	}

	from := task.Status
	task.Status = target
	task.UpdatedAt = uc.clock.Now()
	if err := uc.tasks.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(domain.StringValue(task.OrderID), "task", fmt.Sprintf("%s: %s → %s", task.ID, from, target))
	}
	return &MoveTaskOutput{Task: task, From: from}, nil
}
