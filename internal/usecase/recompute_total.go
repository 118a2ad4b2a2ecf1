package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// RecomputeOrderTotalOutput contains the recomputed total.
type RecomputeOrderTotalOutput struct {
	Total    decimal.Decimal
	Previous decimal.Decimal // Stored total before recomputation
}

// RecomputeOrderTotal rewrites Order.TotalAmount from the order's items.
type RecomputeOrderTotal struct {
	store domain.Store
}

// NewRecomputeOrderTotal creates a new RecomputeOrderTotal use case.
func NewRecomputeOrderTotal(store domain.Store) *RecomputeOrderTotal {
	return &RecomputeOrderTotal{store: store}
}

// Execute recomputes the total inside a transaction and returns it.
func (uc *RecomputeOrderTotal) Execute(ctx context.Context, orderID string) (*RecomputeOrderTotalOutput, error) {
	var out RecomputeOrderTotalOutput
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		order, err := shared.GetOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		out.Previous = order.TotalAmount
		out.Total, err = recomputeTotal(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// recomputeTotal sums price × quantity over the current items and writes
// the result back. Callers run it in the same transaction as the item
// mutation that made it necessary.
func recomputeTotal(ctx context.Context, orders domain.OrderRepository, orderID string) (decimal.Decimal, error) {
	items, err := orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list order items: %w", err)
	}
	total := domain.SumItems(items)
	if err := orders.UpdateOrderTotal(ctx, orderID, total); err != nil {
		return decimal.Zero, fmt.Errorf("update order total: %w", err)
	}
	return total, nil
}
