package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task to show (required)
}

// ShowTaskOutput contains a task with its direct subtasks.
type ShowTaskOutput struct {
	Task     *domain.Task
	Subtasks []*domain.Task
}

// ShowTask is the use case for displaying a task.
type ShowTask struct {
	tasks domain.TaskRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute returns the task and its direct subtasks.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := uc.tasks.FindTasks(ctx, domain.TaskFilter{ParentTaskID: &task.ID})
	if err != nil {
		return nil, fmt.Errorf("find subtasks: %w", err)
	}
	return &ShowTaskOutput{Task: task, Subtasks: subtasks}, nil
}
