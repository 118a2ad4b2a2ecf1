package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

func newTestDeriver(store *testutil.MockStore) (*DeriveTasks, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	return newDeriveTasksForStore(store, newTestClock(), logger), logger
}

func TestDeriveTasks_ForOrder_CreatesTaskTree(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	uc, logger := newTestDeriver(store)

	// Execute
	out, err := uc.ForOrder(context.Background(), f.order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, out.Created)
	assert.Equal(t, 0, out.Reused)
	assert.Equal(t, 1, out.Products)
	assert.Len(t, out.TaskIDs, 3)
	require.Len(t, store.Tasks, 3)

	tasks := tasksByTitle(store)
	prepare, pkg, wash := tasks["Prepare"], tasks["Package"], tasks["Wash"]
	require.NotNil(t, prepare)
	require.NotNil(t, pkg)
	require.NotNil(t, wash)

	assert.True(t, prepare.IsRoot())
	assert.True(t, pkg.IsRoot())
	require.NotNil(t, wash.ParentTaskID)
	assert.Equal(t, prepare.ID, *wash.ParentTaskID)

	for _, task := range store.Tasks {
		assert.Equal(t, domain.StatusTodo, task.Status)
		assert.Equal(t, domain.TaskTypeAutomatic, task.TaskType)
		assert.Equal(t, f.order.ID, domain.StringValue(task.OrderID))
		assert.Equal(t, f.product.ID, domain.StringValue(task.ProductID))
		assert.Equal(t, testNow, task.CreatedAt)
	}
	assert.Equal(t, domain.PriorityHigh, prepare.Priority)
	assert.Equal(t, "Mix and knead", prepare.Description)
	assert.Equal(t, 1, logger.Count("INFO"))
}

func TestDeriveTasks_ForOrder_Idempotent(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	uc, _ := newTestDeriver(store)
	ctx := context.Background()

	_, err := uc.ForOrder(ctx, f.order.ID)
	require.NoError(t, err)
	before := tasksByTitle(store)

	// Execute
	out, err := uc.ForOrder(ctx, f.order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, out.Created)
	assert.Equal(t, 3, out.Reused)
	assert.Empty(t, out.TaskIDs)
	assert.Len(t, store.Tasks, 3)
	after := tasksByTitle(store)
	for title, task := range before {
		assert.Equal(t, task.ID, after[title].ID, title)
	}
}

func TestDeriveTasks_ForProduct_ReusesTopLevelTaskByTitle(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	existing := seedTask(t, store, &domain.Task{
		Title:     "Prepare",
		OrderID:   &f.order.ID,
		ProductID: &f.product.ID,
		TaskType:  domain.TaskTypeAutomatic,
		Status:    domain.StatusInProgress,
	})
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForProduct(context.Background(), f.order.ID, f.product.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Reused)
	assert.Len(t, store.Tasks, 3)
	wash := tasksByTitle(store)["Wash"]
	require.NotNil(t, wash.ParentTaskID)
	assert.Equal(t, existing.ID, *wash.ParentTaskID)
	assert.Equal(t, domain.StatusInProgress, store.Tasks[existing.ID].Status)
}

func TestDeriveTasks_ForProduct_PrefersRootMatch(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	root := seedTask(t, store, &domain.Task{Title: "Other", OrderID: &f.order.ID, ProductID: &f.product.ID})
	// A subtask that happens to share the top-level title
	seedTask(t, store, &domain.Task{Title: "Package", OrderID: &f.order.ID, ProductID: &f.product.ID, ParentTaskID: &root.ID})
	rootPackage := seedTask(t, store, &domain.Task{Title: "Package", OrderID: &f.order.ID, ProductID: &f.product.ID})
	seedTemplate(t, store, &domain.TaskTemplate{
		Title:            "Label",
		ProductID:        &f.product.ID,
		ParentTemplateID: &f.packageTpl.ID,
	})
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForProduct(context.Background(), f.order.ID, f.product.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, out.Created)
	assert.Equal(t, 1, out.Reused)
	assert.Len(t, store.Tasks, 6)

	rootPackages := 0
	for _, task := range store.Tasks {
		if task.Title == "Package" && task.IsRoot() {
			rootPackages++
		}
	}
	assert.Equal(t, 1, rootPackages)

	label := tasksByTitle(store)["Label"]
	require.NotNil(t, label)
	require.NotNil(t, label.ParentTaskID)
	assert.Equal(t, rootPackage.ID, *label.ParentTaskID)
}

func TestDeriveTasks_ForProduct_FallsBackToSubtaskMatch(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	root := seedTask(t, store, &domain.Task{Title: "Other", OrderID: &f.order.ID, ProductID: &f.product.ID})
	sub := seedTask(t, store, &domain.Task{Title: "Package", OrderID: &f.order.ID, ProductID: &f.product.ID, ParentTaskID: &root.ID})
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForProduct(context.Background(), f.order.ID, f.product.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Reused)
	assert.Len(t, store.Tasks, 4)
	for _, task := range store.Tasks {
		if task.Title == "Package" {
			assert.Equal(t, sub.ID, task.ID)
		}
	}
}

func TestDeriveTasks_IngredientOnlyTemplatesNeverDerived(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	sift := seedTemplate(t, store, &domain.TaskTemplate{Title: "Sift flour", IngredientID: &f.flour.ID})
	seedTemplate(t, store, &domain.TaskTemplate{Title: "Weigh", IngredientID: &f.flour.ID, ParentTemplateID: &sift.ID})
	require.NoError(t, store.LinkIngredient(context.Background(), &domain.ProductIngredient{
		ProductID: f.product.ID, IngredientID: f.flour.ID, Quantity: dec("0.5"),
	}))
	uc, _ := newTestDeriver(store)

	// Execute
	_, err := uc.ForOrder(context.Background(), f.order.ID)

	// Assert
	require.NoError(t, err)
	assert.Len(t, store.Tasks, 3)
	tasks := tasksByTitle(store)
	assert.NotContains(t, tasks, "Sift flour")
	assert.NotContains(t, tasks, "Weigh")
}

func TestDeriveTasks_ProvenancePassthrough(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	uc, _ := newTestDeriver(store)

	// Execute
	_, err := uc.ForOrder(context.Background(), f.order.ID)

	// Assert
	require.NoError(t, err)
	tasks := tasksByTitle(store)
	assert.Equal(t, f.flour.ID, domain.StringValue(tasks["Wash"].IngredientID))
	assert.Nil(t, tasks["Prepare"].IngredientID)
	assert.Nil(t, tasks["Package"].IngredientID)
	assert.Equal(t, tasks["Prepare"].ID, domain.StringValue(tasks["Wash"].ParentTaskID))
}

func TestDeriveTasks_ForOrder_DistinctProducts(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	cake := seedProduct(t, store, "Cake", "12.00")
	seedTemplate(t, store, &domain.TaskTemplate{Title: "Bake", ProductID: &cake.ID})
	ctx := context.Background()
	for _, it := range []*domain.OrderItem{
		{OrderID: f.order.ID, ProductID: cake.ID, Quantity: dec("1"), Price: dec("12.00")},
		{OrderID: f.order.ID, ProductID: f.product.ID, Quantity: dec("3"), Price: dec("4.50")},
	} {
		require.NoError(t, store.CreateOrderItem(ctx, it))
	}
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForOrder(ctx, f.order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Products)
	assert.Equal(t, 4, out.Created)
	assert.Len(t, store.Tasks, 4)
	assert.Equal(t, cake.ID, domain.StringValue(tasksByTitle(store)["Bake"].ProductID))
}

func TestDeriveTasks_ForOrder_NoItems(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	order := seedOrder(t, store)
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForOrder(context.Background(), order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, out.Created)
	assert.Empty(t, store.Tasks)
}

func TestDeriveTasks_ForOrder_OrderNotFound(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	uc, _ := newTestDeriver(store)

	// Execute
	_, err := uc.ForOrder(context.Background(), "missing")

	// Assert
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeriveTasks_DuplicateInsertTreatedAsExisting(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	ctx := context.Background()
	// Another writer inserts the same task between the existence check and our insert.
	store.CreateTaskHook = func(task *domain.Task) error {
		store.CreateTaskHook = nil
		racer := *task
		return store.CreateTask(ctx, &racer)
	}
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForOrder(ctx, f.order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Reused)
	assert.Len(t, store.Tasks, 3)
	tasks := tasksByTitle(store)
	assert.Equal(t, tasks["Prepare"].ID, domain.StringValue(tasks["Wash"].ParentTaskID))
}

func TestDeriveTasks_StoreFailureKeepsEarlierTasks(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	calls := 0
	store.CreateTaskHook = func(_ *domain.Task) error {
		calls++
		if calls == 2 {
			return assert.AnError
		}
		return nil
	}
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.ForOrder(context.Background(), f.order.ID)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, out.Created)
	assert.Len(t, store.Tasks, 1)
}

func TestDeriveTasks_ListTemplatesError(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	store.ListTemplatesErr = assert.AnError
	uc, _ := newTestDeriver(store)

	// Execute
	_, err := uc.ForProduct(context.Background(), f.order.ID, f.product.ID)

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "list templates")
}

func TestDeriveTasks_Execute_SingleProduct(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.Execute(context.Background(), DeriveTasksInput{OrderID: f.order.ID, ProductID: &f.product.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, out.Created)

	_, err = uc.Execute(context.Background(), DeriveTasksInput{OrderID: "missing", ProductID: &f.product.ID})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeriveTasks_Execute_UnknownProduct(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	uc, _ := newTestDeriver(store)

	// Execute
	out, err := uc.Execute(context.Background(), DeriveTasksInput{OrderID: f.order.ID, ProductID: domain.Ptr("no-such-product")})

	// Assert
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, out)
	assert.Empty(t, store.Tasks)
}

func TestDeriveAfterMutation(t *testing.T) {
	failing := func() (*DeriveTasksOutput, error) { return &DeriveTasksOutput{}, assert.AnError }

	t.Run("best effort logs and reports", func(t *testing.T) {
		logger := &testutil.MockLogger{}
		out, warn, err := deriveAfterMutation("order-1", true, logger, failing)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.ErrorIs(t, warn, assert.AnError)
		require.Len(t, logger.Entries, 1)
		assert.Equal(t, "WARN", logger.Entries[0].Level)
		assert.Equal(t, "order-1", logger.Entries[0].Scope)
	})

	t.Run("strict returns the error", func(t *testing.T) {
		logger := &testutil.MockLogger{}
		_, warn, err := deriveAfterMutation("order-1", false, logger, failing)
		assert.NoError(t, warn)
		assert.True(t, errors.Is(err, assert.AnError))
		assert.Empty(t, logger.Entries)
	})
}
