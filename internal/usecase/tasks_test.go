package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

func TestCreateTask_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	order := seedOrder(t, store)
	logger := &testutil.MockLogger{}
	uc := NewCreateTask(store, store, newTestClock(), logger)
	deadline := testNow.Add(24 * time.Hour)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTaskInput{
		Title:    "Call customer",
		Assignee: "mika",
		Priority: domain.PriorityMedium,
		Deadline: &deadline,
		OrderID:  &order.ID,
	})

	// Assert
	require.NoError(t, err)
	task := store.Tasks[out.Task.ID]
	require.NotNil(t, task)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.TaskTypeManual, task.TaskType)
	assert.Equal(t, order.ID, domain.StringValue(task.OrderID))
	assert.Equal(t, deadline, *task.Deadline)
	assert.Equal(t, testNow, task.CreatedAt)
	require.Len(t, logger.Entries, 1)
	assert.Equal(t, order.ID, logger.Entries[0].Scope)
}

func TestCreateTask_Execute_SubtaskJoinsParentOrder(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	order := seedOrder(t, store)
	parent := seedTask(t, store, &domain.Task{Title: "Deliver", OrderID: &order.ID})
	uc := NewCreateTask(store, store, newTestClock(), nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTaskInput{Title: "Load van", ParentTaskID: &parent.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.ID, domain.StringValue(out.Task.OrderID))
	assert.Equal(t, parent.ID, domain.StringValue(out.Task.ParentTaskID))
}

func TestCreateTask_Execute_Errors(t *testing.T) {
	store := testutil.NewMockStore()
	tests := []struct {
		name    string
		in      CreateTaskInput
		wantErr error
	}{
		{"empty title", CreateTaskInput{}, domain.ErrEmptyTitle},
		{"bad priority", CreateTaskInput{Title: "x", Priority: "urgent"}, domain.ErrInvalidPriority},
		{"unknown parent", CreateTaskInput{Title: "x", ParentTaskID: domain.Ptr("nope")}, domain.ErrParentNotFound},
		{"unknown order", CreateTaskInput{Title: "x", OrderID: domain.Ptr("nope")}, domain.ErrOrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCreateTask(store, store, newTestClock(), nil).Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, store.Tasks)
}

func TestListTasks_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	deriver, _ := newTestDeriver(store)
	_, err := deriver.ForOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	done := seedTask(t, store, &domain.Task{Title: "Old chore", Status: domain.StatusCompleted})
	uc := NewListTasks(store)
	ctx := context.Background()

	t.Run("hides terminal tasks", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListTasksInput{})
		require.NoError(t, err)
		assert.Len(t, out.Tasks, 3)
	})

	t.Run("include terminal", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListTasksInput{IncludeTerminal: true})
		require.NoError(t, err)
		assert.Len(t, out.Tasks, 4)
	})

	t.Run("explicit terminal status", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListTasksInput{Status: domain.Ptr(domain.StatusCompleted)})
		require.NoError(t, err)
		require.Len(t, out.Tasks, 1)
		assert.Equal(t, done.ID, out.Tasks[0].ID)
	})

	t.Run("roots of an order", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListTasksInput{OrderID: &f.order.ID, RootOnly: true})
		require.NoError(t, err)
		require.Len(t, out.Tasks, 2)
		assert.Equal(t, "Prepare", out.Tasks[0].Title)
	})

	t.Run("manual only", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListTasksInput{TaskType: domain.Ptr(domain.TaskTypeManual), IncludeTerminal: true})
		require.NoError(t, err)
		assert.Len(t, out.Tasks, 1)
	})

	t.Run("invalid filters", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListTasksInput{Status: domain.Ptr(domain.Status("done"))})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		_, err = uc.Execute(ctx, ListTasksInput{TaskType: domain.Ptr(domain.TaskType("robot"))})
		assert.Error(t, err)
	})
}

func TestShowTask_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	parent := seedTask(t, store, &domain.Task{Title: "Deliver"})
	seedTask(t, store, &domain.Task{Title: "Load van", ParentTaskID: &parent.ID})
	seedTask(t, store, &domain.Task{Title: "Other"})
	uc := NewShowTask(store)

	// Execute
	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: parent.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Deliver", out.Task.Title)
	require.Len(t, out.Subtasks, 1)
	assert.Equal(t, "Load van", out.Subtasks[0].Title)

	_, err = uc.Execute(context.Background(), ShowTaskInput{TaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestMoveTask_Execute(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.Status
		to      domain.Status
		want    domain.Status
		wantErr error
	}{
		{"next from todo", domain.StatusTodo, "", domain.StatusInProgress, nil},
		{"next from in-progress", domain.StatusInProgress, "", domain.StatusCompleted, nil},
		{"explicit cancel", domain.StatusTodo, domain.StatusCancelled, domain.StatusCancelled, nil},
		{"next from completed", domain.StatusCompleted, "", "", domain.ErrInvalidTransition},
		{"skip ahead", domain.StatusTodo, domain.StatusCompleted, "", domain.ErrInvalidTransition},
		{"reopen cancelled", domain.StatusCancelled, domain.StatusTodo, "", domain.ErrInvalidTransition},
		{"unknown status", domain.StatusTodo, "done", "", domain.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			store := testutil.NewMockStore()
			task := seedTask(t, store, &domain.Task{Title: "Bake", Status: tt.from})
			logger := &testutil.MockLogger{}
			uc := NewMoveTask(store, newTestClock(), logger)

			// Execute
			out, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: task.ID, Status: tt.to})

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, store.Tasks[task.ID].Status)
				assert.Empty(t, logger.Entries)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, out.From)
			assert.Equal(t, tt.want, store.Tasks[task.ID].Status)
			assert.Equal(t, testNow, store.Tasks[task.ID].UpdatedAt)
			assert.Equal(t, 1, logger.Count("INFO"))
		})
	}
}

func TestMoveTask_Execute_NotFound(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := NewMoveTask(store, newTestClock(), nil).Execute(context.Background(), MoveTaskInput{TaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestEditTask_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	deadline := testNow.Add(time.Hour)
	task := seedTask(t, store, &domain.Task{Title: "Bake", Assignee: "mika", Deadline: &deadline})
	uc := NewEditTask(store, newTestClock())
	ctx := context.Background()

	// Execute
	_, err := uc.Execute(ctx, EditTaskInput{
		TaskID:   task.ID,
		Title:    domain.Ptr("Bake rolls"),
		Assignee: domain.Ptr(""),
		Priority: domain.Ptr(domain.PriorityLow),
	})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, EditTaskInput{TaskID: task.ID, ClearDeadline: true})
	require.NoError(t, err)

	// Assert
	got := store.Tasks[task.ID]
	assert.Equal(t, "Bake rolls", got.Title)
	assert.Empty(t, got.Assignee)
	assert.Equal(t, domain.PriorityLow, got.Priority)
	assert.Nil(t, got.Deadline)
	assert.Equal(t, testNow, got.UpdatedAt)
}

func TestEditTask_Execute_Errors(t *testing.T) {
	store := testutil.NewMockStore()
	task := seedTask(t, store, &domain.Task{Title: "Bake"})
	uc := NewEditTask(store, newTestClock())
	ctx := context.Background()

	_, err := uc.Execute(ctx, EditTaskInput{TaskID: task.ID})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	_, err = uc.Execute(ctx, EditTaskInput{TaskID: task.ID, Title: domain.Ptr("")})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = uc.Execute(ctx, EditTaskInput{TaskID: task.ID, Priority: domain.Ptr(domain.Priority("urgent"))})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = uc.Execute(ctx, EditTaskInput{TaskID: "nope", Title: domain.Ptr("x")})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	root := seedTask(t, store, &domain.Task{Title: "Deliver"})
	child := seedTask(t, store, &domain.Task{Title: "Load van", ParentTaskID: &root.ID})
	seedTask(t, store, &domain.Task{Title: "Check tyres", ParentTaskID: &child.ID})
	keep := seedTask(t, store, &domain.Task{Title: "Other"})
	uc := NewDeleteTask(store, nil)

	// Execute
	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: root.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, out.Deleted)
	require.Len(t, store.Tasks, 1)
	assert.Contains(t, store.Tasks, keep.ID)

	_, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: root.ID})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
