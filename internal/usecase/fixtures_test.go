package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: testNow}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, store *testutil.MockStore, name, price string) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: dec(price)}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func seedIngredient(t *testing.T, store *testutil.MockStore, name string) *domain.Ingredient {
	t.Helper()
	i := &domain.Ingredient{Name: name, Unit: "kg"}
	require.NoError(t, store.CreateIngredient(context.Background(), i))
	return i
}

func seedTemplate(t *testing.T, store *testutil.MockStore, tmpl *domain.TaskTemplate) *domain.TaskTemplate {
	t.Helper()
	tmpl.IsSubtask = tmpl.ParentTemplateID != nil
	require.NoError(t, store.CreateTemplate(context.Background(), tmpl))
	return tmpl
}

func seedOrder(t *testing.T, store *testutil.MockStore, items ...*domain.OrderItem) *domain.Order {
	t.Helper()
	ctx := context.Background()
	o := &domain.Order{Status: domain.OrderPending, OrderDate: testNow}
	require.NoError(t, store.CreateOrder(ctx, o))
	for _, it := range items {
		it.OrderID = o.ID
		require.NoError(t, store.CreateOrderItem(ctx, it))
	}
	return o
}

func seedTask(t *testing.T, store *testutil.MockStore, task *domain.Task) *domain.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.TaskType == "" {
		task.TaskType = domain.TaskTypeManual
	}
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}

// breadFixture is a product with two top-level templates and one subtask
// template:
//
//	Prepare (high)
//	└── Wash (uses Flour)
//	Package
type breadFixture struct {
	product    *domain.Product
	flour      *domain.Ingredient
	prepare    *domain.TaskTemplate
	wash       *domain.TaskTemplate
	packageTpl *domain.TaskTemplate
	order      *domain.Order
}

func seedBread(t *testing.T, store *testutil.MockStore) breadFixture {
	t.Helper()
	f := breadFixture{}
	f.product = seedProduct(t, store, "Bread", "4.50")
	f.flour = seedIngredient(t, store, "Flour")
	f.prepare = seedTemplate(t, store, &domain.TaskTemplate{
		Title:       "Prepare",
		Description: "Mix and knead",
		Priority:    domain.PriorityHigh,
		ProductID:   &f.product.ID,
	})
	f.packageTpl = seedTemplate(t, store, &domain.TaskTemplate{
		Title:     "Package",
		ProductID: &f.product.ID,
	})
	f.wash = seedTemplate(t, store, &domain.TaskTemplate{
		Title:            "Wash",
		ProductID:        &f.product.ID,
		IngredientID:     &f.flour.ID,
		ParentTemplateID: &f.prepare.ID,
	})
	f.order = seedOrder(t, store, &domain.OrderItem{
		ProductID: f.product.ID,
		Quantity:  dec("1"),
		Price:     dec("4.50"),
	})
	return f
}

func tasksByTitle(store *testutil.MockStore) map[string]*domain.Task {
	out := make(map[string]*domain.Task, len(store.Tasks))
	for _, task := range store.Tasks {
		out[task.Title] = task
	}
	return out
}
