package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

func TestRecomputeOrderTotal_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	a := seedProduct(t, store, "A", "25.00")
	b := seedProduct(t, store, "B", "10.00")
	order := seedOrder(t, store,
		&domain.OrderItem{ProductID: a.ID, Quantity: dec("1"), Price: dec("25.00")},
		&domain.OrderItem{ProductID: b.ID, Quantity: dec("2"), Price: dec("10.00")},
	)
	uc := NewRecomputeOrderTotal(store)

	// Execute
	out, err := uc.Execute(context.Background(), order.ID)

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(dec("45.00")), out.Total.String())
	assert.Equal(t, "45.00", out.Total.StringFixed(2))
	assert.True(t, out.Previous.IsZero())
	assert.True(t, store.Orders[order.ID].TotalAmount.Equal(dec("45")))
	assert.Equal(t, 1, store.TxCount)
}

func TestRecomputeOrderTotal_ExactDecimal(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	p := seedProduct(t, store, "Tea", "0.10")
	order := seedOrder(t, store,
		&domain.OrderItem{ProductID: p.ID, Quantity: dec("3"), Price: dec("0.10")},
		&domain.OrderItem{ProductID: p.ID, Quantity: dec("0.333"), Price: dec("3")},
	)
	uc := NewRecomputeOrderTotal(store)

	// Execute
	out, err := uc.Execute(context.Background(), order.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "1.299", out.Total.String())
}

func TestRecomputeOrderTotal_NoItemsIsZero(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	order := seedOrder(t, store)
	store.Orders[order.ID].TotalAmount = dec("99")
	uc := NewRecomputeOrderTotal(store)

	// Execute
	out, err := uc.Execute(context.Background(), order.ID)

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Total.IsZero())
	assert.True(t, out.Previous.Equal(dec("99")))
}

func TestRecomputeOrderTotal_Errors(t *testing.T) {
	t.Run("order not found", func(t *testing.T) {
		store := testutil.NewMockStore()
		_, err := NewRecomputeOrderTotal(store).Execute(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("update fails", func(t *testing.T) {
		store := testutil.NewMockStore()
		order := seedOrder(t, store)
		store.UpdateTotalErr = assert.AnError
		_, err := NewRecomputeOrderTotal(store).Execute(context.Background(), order.ID)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "update order total")
	})

	t.Run("list items fails", func(t *testing.T) {
		store := testutil.NewMockStore()
		order := seedOrder(t, store)
		store.ListItemsErr = assert.AnError
		_, err := NewRecomputeOrderTotal(store).Execute(context.Background(), order.ID)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
