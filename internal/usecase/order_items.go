// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// AddOrderItemInput contains the parameters for adding an item to an order.
type AddOrderItemInput struct {
	OrderID string // Order to add to (required)
	OrderItemInput
}

// AddOrderItemOutput contains the result of adding an item.
type AddOrderItemOutput struct {
	DerivationErr error              // Non-nil if task derivation failed after the item was saved
	Item          *domain.OrderItem  // The created item
	Derived       *DeriveTasksOutput // Tasks derived for the item's product
	Total         decimal.Decimal    // Order total after the change
}

// AddOrderItem is the use case for adding a product to an order.
type AddOrderItem struct {
	store      domain.Store
	clock      domain.Clock
	logger     domain.Logger
	bestEffort bool
}

// NewAddOrderItem creates a new AddOrderItem use case.
func NewAddOrderItem(store domain.Store, clock domain.Clock, logger domain.Logger, bestEffort bool) *AddOrderItem {
	return &AddOrderItem{
		store:      store,
		clock:      clock,
		logger:     logger,
		bestEffort: bestEffort,
	}
}

// Execute inserts the item and recomputes the total in one transaction,
// then derives tasks for the item's product.
func (uc *AddOrderItem) Execute(ctx context.Context, in AddOrderItemInput) (*AddOrderItemOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	out := &AddOrderItemOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetOrder(ctx, tx, in.OrderID); err != nil {
			return err
		}
		item, err := insertItem(ctx, tx, in.OrderID, in.OrderItemInput)
		if err != nil {
			return err
		}
		out.Item = item
		out.Total, err = recomputeTotal(ctx, tx, in.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.OrderID, "order", fmt.Sprintf("item %s added: %s x %s, total %s",
			out.Item.ProductID, out.Item.Quantity, out.Item.Price, out.Total))
	}

	deriver := newDeriveTasksForStore(uc.store, uc.clock, uc.logger)
	out.Derived, out.DerivationErr, err = deriveAfterMutation(in.OrderID, uc.bestEffort, uc.logger, func() (*DeriveTasksOutput, error) {
		return deriver.ForProduct(ctx, in.OrderID, out.Item.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderItemInput contains the parameters for changing an item.
// Only non-nil fields are updated.
type UpdateOrderItemInput struct {
	Quantity *decimal.Decimal // New quantity (nil = no change)
	Price    *decimal.Decimal // New unit price (nil = no change)
	OrderID  string           // Order owning the item (required)
	ItemID   string           // Item to change (required)
}

// UpdateOrderItemOutput contains the result of changing an item.
type UpdateOrderItemOutput struct {
	Item  *domain.OrderItem
	Total decimal.Decimal // Order total after the change
}

// UpdateOrderItem is the use case for changing quantity or price of an item.
type UpdateOrderItem struct {
	store  domain.Store
	logger domain.Logger
}

// NewUpdateOrderItem creates a new UpdateOrderItem use case.
func NewUpdateOrderItem(store domain.Store, logger domain.Logger) *UpdateOrderItem {
	return &UpdateOrderItem{store: store, logger: logger}
}

// Execute updates the item and recomputes the total in one transaction.
func (uc *UpdateOrderItem) Execute(ctx context.Context, in UpdateOrderItemInput) (*UpdateOrderItemOutput, error) {
	if in.Quantity == nil && in.Price == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Quantity != nil && !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.ErrNegativePrice
	}

	out := &UpdateOrderItemOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		item, err := shared.GetOrderItem(ctx, tx, in.OrderID, in.ItemID)
		if err != nil {
			return err
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.Price != nil {
			item.Price = *in.Price
		}
		if err := tx.UpdateOrderItem(ctx, item); err != nil {
			return fmt.Errorf("update order item: %w", err)
		}
		out.Item = item
		out.Total, err = recomputeTotal(ctx, tx, in.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.OrderID, "order", fmt.Sprintf("item %s updated, total %s", in.ItemID, out.Total))
	}
	return out, nil
}

// RemoveOrderItemInput contains the parameters for removing an item.
type RemoveOrderItemInput struct {
	OrderID string // Order owning the item (required)
	ItemID  string // Item to remove (required)
}

// RemoveOrderItemOutput contains the result of removing an item.
type RemoveOrderItemOutput struct {
	Total decimal.Decimal // Order total after the change
}

// RemoveOrderItem is the use case for removing an item from an order.
// Tasks already derived for the item's product are kept.
type RemoveOrderItem struct {
	store  domain.Store
	logger domain.Logger
}

// NewRemoveOrderItem creates a new RemoveOrderItem use case.
func NewRemoveOrderItem(store domain.Store, logger domain.Logger) *RemoveOrderItem {
	return &RemoveOrderItem{store: store, logger: logger}
}

// Execute deletes the item and recomputes the total in one transaction.
func (uc *RemoveOrderItem) Execute(ctx context.Context, in RemoveOrderItemInput) (*RemoveOrderItemOutput, error) {
	out := &RemoveOrderItemOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetOrderItem(ctx, tx, in.OrderID, in.ItemID); err != nil {
			return err
		}
		if err := tx.DeleteOrderItem(ctx, in.ItemID); err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}
		var err error
		out.Total, err = recomputeTotal(ctx, tx, in.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.OrderID, "order", fmt.Sprintf("item %s removed, total %s", in.ItemID, out.Total))
	}
	return out, nil
}
