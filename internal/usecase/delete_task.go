package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task to delete (required)
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Deleted int // The task plus all of its descendants
}

// DeleteTask is the use case for deleting a task with its subtasks.
type DeleteTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, logger: logger}
}

// Execute deletes the task with the given ID and everything below it.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	n, err := uc.countTree(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.DeleteTask(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(domain.StringValue(task.OrderID), "task", fmt.Sprintf("deleted %s (%d tasks)", task.ID, n))
	}
	return &DeleteTaskOutput{Deleted: n}, nil
}

func (uc *DeleteTask) countTree(ctx context.Context, id string) (int, error) {
	children, err := uc.tasks.FindTasks(ctx, domain.TaskFilter{ParentTaskID: &id})
	if err != nil {
		return 0, fmt.Errorf("find subtasks: %w", err)
	}
	n := 1
	for _, c := range children {
		m, err := uc.countTree(ctx, c.ID)
		if err != nil {
			return 0, err
		}
		n += m
	}
	return n, nil
}
