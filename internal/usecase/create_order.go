// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// OrderItemInput describes a line item to add to an order.
type OrderItemInput struct {
	Price     *decimal.Decimal // Unit price (nil = current product price)
	Quantity  decimal.Decimal  // Must be greater than zero
	ProductID string           // Product to order (required)
}

// validate checks quantity and price.
func (in OrderItemInput) validate() error {
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if in.Price != nil && in.Price.IsNegative() {
		return domain.ErrNegativePrice
	}
	return nil
}

// CreateOrderInput contains the parameters for creating an order.
// Fields are ordered to minimize memory padding.
type CreateOrderInput struct {
	OrderDate    *time.Time       // Order date (nil = now)
	DeliveryDate *time.Time       // Requested delivery date (optional)
	CustomerID   string           // Opaque customer reference (optional)
	Notes        string           // Free-form notes (optional)
	Items        []OrderItemInput // Initial line items (optional)
}

// CreateOrderOutput contains the result of creating an order.
type CreateOrderOutput struct {
	DerivationErr error              // Non-nil if task derivation failed after the order was saved
	Order         *domain.Order      // The created order, with its total
	Derived       *DeriveTasksOutput // Tasks derived for the order's products
	Items         []*domain.OrderItem
}

// CreateOrder is the use case for placing a new order.
type CreateOrder struct {
	store      domain.Store
	clock      domain.Clock
	logger     domain.Logger
	bestEffort bool
}

// NewCreateOrder creates a new CreateOrder use case.
// bestEffort controls whether a derivation failure fails the call.
func NewCreateOrder(store domain.Store, clock domain.Clock, logger domain.Logger, bestEffort bool) *CreateOrder {
	return &CreateOrder{
		store:      store,
		clock:      clock,
		logger:     logger,
		bestEffort: bestEffort,
	}
}

// Execute creates the order and its items, recomputes the total in the
// same transaction, then derives tasks for every product on the order.
func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*CreateOrderOutput, error) {
	for i, item := range in.Items {
		if err := item.validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	now := uc.clock.Now()
	order := &domain.Order{
		CustomerID:   in.CustomerID,
		Notes:        in.Notes,
		Status:       domain.OrderPending,
		OrderDate:    now,
		DeliveryDate: in.DeliveryDate,
		TotalAmount:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}

	out := &CreateOrderOutput{Order: order}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i, itemIn := range in.Items {
			item, err := insertItem(ctx, tx, order.ID, itemIn)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			out.Items = append(out.Items, item)
		}
		total, err := recomputeTotal(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(order.ID, "order", fmt.Sprintf("created with %d items, total %s", len(out.Items), order.TotalAmount))
	}

	deriver := newDeriveTasksForStore(uc.store, uc.clock, uc.logger)
	out.Derived, out.DerivationErr, err = deriveAfterMutation(order.ID, uc.bestEffort, uc.logger, func() (*DeriveTasksOutput, error) {
		return deriver.ForOrder(ctx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// insertItem creates an order item, taking the price from the product when
// the input does not carry one.
func insertItem(ctx context.Context, tx domain.Store, orderID string, in OrderItemInput) (*domain.OrderItem, error) {
	product, err := shared.GetProduct(ctx, tx, in.ProductID)
	if err != nil {
		return nil, err
	}
	price := product.Price
	if in.Price != nil {
		price = *in.Price
	}
	item := &domain.OrderItem{
		OrderID:   orderID,
		ProductID: product.ID,
		Quantity:  in.Quantity,
		Price:     price,
	}
	if err := tx.CreateOrderItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create order item: %w", err)
	}
	return item, nil
}
