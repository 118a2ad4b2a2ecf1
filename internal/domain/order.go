package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

// CanTransitionTo returns true if the order status can move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid returns true if the order status is a known value.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Order is the aggregate root for line items and the tasks derived from them.
// Fields are ordered to minimize memory padding.
type Order struct {
	OrderDate    time.Time       `db:"order_date" json:"orderDate"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
	DeliveryDate *time.Time      `db:"delivery_date" json:"deliveryDate,omitempty"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"totalAmount"` // Derived: Σ price × quantity
	ID           string          `db:"id" json:"id"`
	CustomerID   string          `db:"customer_id" json:"customerId,omitempty"`
	Notes        string          `db:"notes" json:"notes,omitempty"`
	Status       OrderStatus     `db:"status" json:"status"`
}

// OrderItem binds a product to an order with a quantity and a price
// captured when the item was added.
type OrderItem struct {
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"` // Unit price snapshot
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"orderId"`
	ProductID string          `db:"product_id" json:"productId"`
}

// LineTotal returns price × quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// SumItems returns Σ price × quantity over items using exact decimal
// arithmetic. No rounding is applied.
func SumItems(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderFilter specifies criteria for listing orders.
type OrderFilter struct {
	Status     *OrderStatus
	CustomerID *string
}
