package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how an order was paid at the terminal.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodGCash PaymentMethod = "gcash"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodGCash
}

// Order is the persisted result of a cart submission. TotalAmount is frozen
// at submission time and never recomputed from items afterwards.
type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at" db:"completed_at"`
}

// OrderItem is one product line within an order. PriceAtTime is the product's
// price copied at submission; later catalog edits never touch it.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name,omitempty" db:"-"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PriceAtTime float64   `json:"price_at_time" db:"price_at_time"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// OrderWithItems embeds an order's items with product names for listings.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"order_items"`
}
