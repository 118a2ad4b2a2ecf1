// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// ShowOrderInput contains the parameters for showing an order.
type ShowOrderInput struct {
	OrderID string // Order to show (required)
}

// ShowOrderOutput contains an order with its items and tasks.
type ShowOrderOutput struct {
	Order *domain.Order
	Items []*domain.OrderItem
	Tasks []*domain.Task // Every task of the order, top-level and subtasks
}

// ShowOrder is the use case for displaying an order.
type ShowOrder struct {
	orders domain.OrderRepository
	tasks  domain.TaskRepository
}

// NewShowOrder creates a new ShowOrder use case.
func NewShowOrder(orders domain.OrderRepository, tasks domain.TaskRepository) *ShowOrder {
	return &ShowOrder{orders: orders, tasks: tasks}
}

// Execute returns the order with its items and tasks.
func (uc *ShowOrder) Execute(ctx context.Context, in ShowOrderInput) (*ShowOrderOutput, error) {
	order, err := shared.GetOrder(ctx, uc.orders, in.OrderID)
	if err != nil {
		return nil, err
	}
	items, err := uc.orders.ListOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	tasks, err := uc.tasks.FindTasks(ctx, domain.TaskFilter{OrderID: &order.ID})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return &ShowOrderOutput{Order: order, Items: items, Tasks: tasks}, nil
}

// ListOrdersInput contains the parameters for listing orders.
type ListOrdersInput struct {
	Status     *domain.OrderStatus // Filter by status (optional)
	CustomerID *string             // Filter by customer (optional)
}

// ListOrdersOutput contains the listed orders.
type ListOrdersOutput struct {
	Orders []*domain.Order // Newest first
}

// ListOrders is the use case for listing orders.
type ListOrders struct {
	orders domain.OrderRepository
}

// NewListOrders creates a new ListOrders use case.
func NewListOrders(orders domain.OrderRepository) *ListOrders {
	return &ListOrders{orders: orders}
}

// Execute lists orders matching the input filter.
func (uc *ListOrders) Execute(ctx context.Context, in ListOrdersInput) (*ListOrdersOutput, error) {
	if in.Status != nil && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
	}
	orders, err := uc.orders.ListOrders(ctx, domain.OrderFilter{
		Status:     in.Status,
		CustomerID: in.CustomerID,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &ListOrdersOutput{Orders: orders}, nil
}

// UpdateOrderStatusInput contains the parameters for moving an order.
type UpdateOrderStatusInput struct {
	OrderID string             // Order to move (required)
	Status  domain.OrderStatus // Target status (required)
}

// UpdateOrderStatusOutput contains the moved order.
type UpdateOrderStatusOutput struct {
	Order *domain.Order
}

// UpdateOrderStatus is the use case for moving an order through its lifecycle.
type UpdateOrderStatus struct {
	orders domain.OrderRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateOrderStatus creates a new UpdateOrderStatus use case.
func NewUpdateOrderStatus(orders domain.OrderRepository, clock domain.Clock, logger domain.Logger) *UpdateOrderStatus {
	return &UpdateOrderStatus{orders: orders, clock: clock, logger: logger}
}

// Execute validates the transition and saves the new status.
func (uc *UpdateOrderStatus) Execute(ctx context.Context, in UpdateOrderStatusInput) (*UpdateOrderStatusOutput, error) {
	if !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}
	order, err := shared.GetOrder(ctx, uc.orders, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, in.Status)
	}

	from := order.Status
	order.Status = in.Status
	order.UpdatedAt = uc.clock.Now()
	if err := uc.orders.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(order.ID, "order", fmt.Sprintf("status changed: %s → %s", from, in.Status))
	}
	return &UpdateOrderStatusOutput{Order: order}, nil
}

// DeleteOrderInput contains the parameters for deleting an order.
type DeleteOrderInput struct {
	OrderID string // Order to delete (required)
}

// DeleteOrderOutput reports what was removed with the order.
type DeleteOrderOutput struct {
	ItemsDeleted int
	TasksDeleted int
}

// DeleteOrder is the use case for deleting an order with its items and tasks.
type DeleteOrder struct {
	store  domain.Store
	logger domain.Logger
}

// NewDeleteOrder creates a new DeleteOrder use case.
func NewDeleteOrder(store domain.Store, logger domain.Logger) *DeleteOrder {
	return &DeleteOrder{store: store, logger: logger}
}

// Execute removes the order, its items and every task of the order in one
// transaction.
func (uc *DeleteOrder) Execute(ctx context.Context, in DeleteOrderInput) (*DeleteOrderOutput, error) {
	out := &DeleteOrderOutput{}
	err := uc.store.WithinTx(ctx, func(tx domain.Store) error {
		if _, err := shared.GetOrder(ctx, tx, in.OrderID); err != nil {
			return err
		}
		items, err := tx.ListOrderItems(ctx, in.OrderID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		tasks, err := tx.FindTasks(ctx, domain.TaskFilter{OrderID: &in.OrderID})
		if err != nil {
			return fmt.Errorf("find tasks: %w", err)
		}
		if err := tx.DeleteOrder(ctx, in.OrderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		out.ItemsDeleted = len(items)
		out.TasksDeleted = len(tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.OrderID, "order", fmt.Sprintf("deleted with %d items and %d tasks", out.ItemsDeleted, out.TasksDeleted))
	}
	return out, nil
}
