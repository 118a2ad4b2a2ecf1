package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
)

const orderColumns = `id, customer_id, notes, status, order_date, delivery_date,
	total_amount, created_at, updated_at`

const itemColumns = `id, order_id, product_id, quantity, price`

// GetOrder retrieves an order by ID.
func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	found, err := s.get(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

// ListOrders retrieves orders matching the filter, newest first.
func (s *Store) ListOrders(ctx context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	w := &where{}
	eq(w, "status", f.Status)
	eq(w, "customer_id", f.CustomerID)

	var out []*domain.Order
	err := s.selectAll(ctx, &out, `SELECT `+orderColumns+` FROM orders`+w.String()+
		` ORDER BY created_at DESC, rowid DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// CreateOrder inserts an order, assigning an ID if it has none.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerID, o.Notes, o.Status, utc(o.OrderDate), utcPtr(o.DeliveryDate),
		o.TotalAmount, utc(o.CreatedAt), utc(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// UpdateOrder writes the order's own fields. The total is left alone.
func (s *Store) UpdateOrder(ctx context.Context, o *domain.Order) error {
	err := s.execOne(ctx, domain.ErrOrderNotFound, `UPDATE orders SET
		customer_id = ?, notes = ?, status = ?, order_date = ?, delivery_date = ?, updated_at = ?
		WHERE id = ?`,
		o.CustomerID, o.Notes, o.Status, utc(o.OrderDate), utcPtr(o.DeliveryDate), utc(o.UpdatedAt), o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// DeleteOrder removes an order with its tasks and items.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.WithinTx(ctx, func(tx domain.Store) error {
		st := tx.(*Store)
		if err := st.exec(ctx, `DELETE FROM tasks WHERE order_id = ?`, id); err != nil {
			return fmt.Errorf("delete order tasks: %w", err)
		}
		if err := st.exec(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := st.exec(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}

// UpdateOrderTotal writes the derived total amount.
func (s *Store) UpdateOrderTotal(ctx context.Context, orderID string, total decimal.Decimal) error {
	err := s.execOne(ctx, domain.ErrOrderNotFound,
		`UPDATE orders SET total_amount = ? WHERE id = ?`, total, orderID)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	return nil
}

// ListOrderItems retrieves the items of an order in insertion order.
func (s *Store) ListOrderItems(ctx context.Context, orderID string) ([]*domain.OrderItem, error) {
	var out []*domain.OrderItem
	err := s.selectAll(ctx, &out, `SELECT `+itemColumns+` FROM order_items WHERE order_id = ? ORDER BY rowid`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return out, nil
}

// GetOrderItem retrieves an item by ID.
func (s *Store) GetOrderItem(ctx context.Context, id string) (*domain.OrderItem, error) {
	var it domain.OrderItem
	found, err := s.get(ctx, &it, `SELECT `+itemColumns+` FROM order_items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get order item: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &it, nil
}

// CreateOrderItem inserts an item, assigning an ID if it has none.
func (s *Store) CreateOrderItem(ctx context.Context, it *domain.OrderItem) error {
	if it.ID == "" {
		it.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO order_items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?)`,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// UpdateOrderItem writes quantity and price of an item.
func (s *Store) UpdateOrderItem(ctx context.Context, it *domain.OrderItem) error {
	err := s.execOne(ctx, domain.ErrOrderItemNotFound,
		`UPDATE order_items SET quantity = ?, price = ? WHERE id = ?`, it.Quantity, it.Price, it.ID)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}

// DeleteOrderItem removes an item.
func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM order_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

// CountProductItems returns how many order items reference a product.
func (s *Store) CountProductItems(ctx context.Context, productID string) (int, error) {
	var n int
	if _, err := s.get(ctx, &n, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, productID); err != nil {
		return 0, fmt.Errorf("count product items: %w", err)
	}
	return n, nil
}
