package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
)

func TestOrderCreate(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)

	// Execute
	stdout, stderr, err := run(t, c, "order", "create",
		"--customer", "c-42",
		"--delivery", "2026-03-20",
		"--item", "product-1:1@25.00",
		"--item", "product-1:2",
	)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Created order order-1 (2 item(s), total 45.00)")
	assert.Contains(t, stdout, "Derived 2 task(s), 0 already present")

	order := store.Orders["order-1"]
	require.NotNil(t, order)
	assert.Equal(t, "c-42", order.CustomerID)
	assert.Equal(t, "45", order.TotalAmount.String())
	require.NotNil(t, order.DeliveryDate)
	assert.Equal(t, "2026-03-20", order.DeliveryDate.Format(dateLayout))
	assert.Len(t, store.Tasks, 2)
}

func TestOrderCreate_DerivationWarning(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	store.CreateTaskErr = errors.New("disk full")

	// Execute
	stdout, stderr, err := run(t, c, "order", "create", "--item", "product-1:1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created order order-1")
	assert.Contains(t, stderr, "Warning: task derivation failed: ")
	assert.Contains(t, stderr, "disk full")
	assert.Contains(t, store.Orders, "order-1")
}

func TestOrderCreate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad item spec", []string{"--item", "product-1"}},
		{"bad quantity", []string{"--item", "product-1:x"}},
		{"zero quantity", []string{"--item", "product-1:0"}},
		{"bad date", []string{"--date", "14/03/2026"}},
		{"unknown product", []string{"--item", "nope:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestContainer(t)
			seedBread(t, store)

			_, _, err := run(t, c, append([]string{"order", "create"}, tt.args...)...)

			assert.Error(t, err)
			assert.Empty(t, store.Orders)
		})
	}
}

func TestOrderListAndShow(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--customer", "c-1", "--item", "product-1:2", "--notes", "no nuts")
	require.NoError(t, err)

	// Execute
	listOut, _, listErr := run(t, c, "order", "list", "--status", "pending")
	showOut, _, showErr := run(t, c, "order", "show", "order-1")

	// Assert
	require.NoError(t, listErr)
	assert.Contains(t, listOut, "order-1")
	assert.Contains(t, listOut, "20.00")

	require.NoError(t, showErr)
	assert.Contains(t, showOut, "Order order-1")
	assert.Contains(t, showOut, "Notes:    no nuts")
	assert.Contains(t, showOut, "Total:    20.00")
	assert.Contains(t, showOut, "Items (1):")
	assert.Contains(t, showOut, "Tasks (2):")
	assert.Contains(t, showOut, "  [todo] Prepare (task-1)")
	assert.Contains(t, showOut, "    └─ [todo] Wash (task-2)")
}

func TestOrderStatus(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--item", "product-1:1")
	require.NoError(t, err)

	// Execute
	stdout, _, err := run(t, c, "order", "status", "order-1", "processing")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Order order-1 is now processing")

	_, _, err = run(t, c, "order", "status", "order-1", "pending")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderDerive_Idempotent(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--item", "product-1:1")
	require.NoError(t, err)

	// Execute
	stdout, _, err := run(t, c, "order", "derive", "order-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Derived 0 task(s), 2 already present")
	assert.Len(t, store.Tasks, 2)
}

func TestOrderRm(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--item", "product-1:1")
	require.NoError(t, err)

	// Execute
	stdout, _, err := run(t, c, "order", "rm", "order-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted order order-1 (1 item(s), 2 task(s))")
	assert.Empty(t, store.Orders)
	assert.Empty(t, store.Tasks)
}

func TestOrderRecompute(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--item", "product-1:3")
	require.NoError(t, err)
	store.Orders["order-1"].TotalAmount = store.Orders["order-1"].TotalAmount.Add(store.Orders["order-1"].TotalAmount)

	// Execute
	stdout, _, err := run(t, c, "order", "recompute", "order-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total 30.00 (was 60.00)")

	stdout, _, err = run(t, c, "order", "recompute", "order-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total 30.00 (unchanged)")
}

func TestItemCommands(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create")
	require.NoError(t, err)

	// Execute: add
	stdout, _, err := run(t, c, "item", "add", "order-1", "--product", "product-1", "--quantity", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added item item-1 (order total 20.00)")
	assert.Contains(t, stdout, "Derived 2 task(s)")

	// Execute: update
	stdout, _, err = run(t, c, "item", "update", "order-1", "item-1", "--price", "12.5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated item item-1: 2 x 12.50 (order total 25.00)")

	// Execute: update without fields
	_, _, err = run(t, c, "item", "update", "order-1", "item-1")
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	// Execute: rm keeps derived tasks
	stdout, _, err = run(t, c, "item", "rm", "order-1", "item-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed item item-1 (order total 0.00)")
	assert.Len(t, store.Tasks, 2)
}
