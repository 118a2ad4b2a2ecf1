package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

func TestShowOrder_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	deriver, _ := newTestDeriver(store)
	_, err := deriver.ForOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	uc := NewShowOrder(store, store)

	// Execute
	out, err := uc.Execute(context.Background(), ShowOrderInput{OrderID: f.order.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, f.order.ID, out.Order.ID)
	assert.Len(t, out.Items, 1)
	assert.Len(t, out.Tasks, 3)
}

func TestShowOrder_Execute_NotFound(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := NewShowOrder(store, store).Execute(context.Background(), ShowOrderInput{OrderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	first := seedOrder(t, store)
	second := seedOrder(t, store)
	store.Orders[second.ID].Status = domain.OrderProcessing
	store.Orders[second.ID].CustomerID = "cust-1"
	uc := NewListOrders(store)
	ctx := context.Background()

	t.Run("all, newest first", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListOrdersInput{})
		require.NoError(t, err)
		require.Len(t, out.Orders, 2)
		assert.Equal(t, second.ID, out.Orders[0].ID)
		assert.Equal(t, first.ID, out.Orders[1].ID)
	})

	t.Run("by status", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListOrdersInput{Status: domain.Ptr(domain.OrderPending)})
		require.NoError(t, err)
		require.Len(t, out.Orders, 1)
		assert.Equal(t, first.ID, out.Orders[0].ID)
	})

	t.Run("by customer", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListOrdersInput{CustomerID: domain.Ptr("cust-1")})
		require.NoError(t, err)
		require.Len(t, out.Orders, 1)
		assert.Equal(t, second.ID, out.Orders[0].ID)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListOrdersInput{Status: domain.Ptr(domain.OrderStatus("shipped"))})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestUpdateOrderStatus_Execute(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr error
	}{
		{"pending to processing", domain.OrderPending, domain.OrderProcessing, nil},
		{"processing to completed", domain.OrderProcessing, domain.OrderCompleted, nil},
		{"pending to cancelled", domain.OrderPending, domain.OrderCancelled, nil},
		{"pending to completed", domain.OrderPending, domain.OrderCompleted, domain.ErrInvalidTransition},
		{"completed to cancelled", domain.OrderCompleted, domain.OrderCancelled, domain.ErrInvalidTransition},
		{"same status", domain.OrderPending, domain.OrderPending, domain.ErrInvalidTransition},
		{"unknown status", domain.OrderPending, "shipped", domain.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			store := testutil.NewMockStore()
			order := seedOrder(t, store)
			store.Orders[order.ID].Status = tt.from
			store.Orders[order.ID].TotalAmount = dec("12.34")
			logger := &testutil.MockLogger{}
			uc := NewUpdateOrderStatus(store, newTestClock(), logger)

			// Execute
			out, err := uc.Execute(context.Background(), UpdateOrderStatusInput{OrderID: order.ID, Status: tt.to})

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, store.Orders[order.ID].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, out.Order.Status)
			assert.Equal(t, tt.to, store.Orders[order.ID].Status)
			assert.Equal(t, testNow, store.Orders[order.ID].UpdatedAt)
			assert.True(t, store.Orders[order.ID].TotalAmount.Equal(dec("12.34")), "total is not touched")
			assert.Equal(t, 1, logger.Count("INFO"))
		})
	}
}

func TestDeleteOrder_Execute_Cascades(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	f := seedBread(t, store)
	deriver, _ := newTestDeriver(store)
	_, err := deriver.ForOrder(context.Background(), f.order.ID)
	require.NoError(t, err)
	seedTask(t, store, &domain.Task{Title: "Call customer", OrderID: &f.order.ID})
	other := seedOrder(t, store)
	otherTask := seedTask(t, store, &domain.Task{Title: "Keep me", OrderID: &other.ID})
	uc := NewDeleteOrder(store, nil)

	// Execute
	out, err := uc.Execute(context.Background(), DeleteOrderInput{OrderID: f.order.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.ItemsDeleted)
	assert.Equal(t, 4, out.TasksDeleted)
	assert.NotContains(t, store.Orders, f.order.ID)
	assert.Empty(t, store.Items)
	assert.Len(t, store.Tasks, 1)
	assert.Contains(t, store.Tasks, otherTask.ID)
	// Templates and products are not part of the order.
	assert.Len(t, store.Templates, 3)
	assert.Len(t, store.Products, 1)
}

func TestDeleteOrder_Execute_NotFound(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := NewDeleteOrder(store, nil).Execute(context.Background(), DeleteOrderInput{OrderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
