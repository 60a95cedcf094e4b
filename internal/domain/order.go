package domain

import (
	"context"
	"time"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// Order is a placed order owned by a user.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	IsPaid     bool        `json:"is_paid"`
	PaidAt     *time.Time  `json:"paid_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderService is the contract of the external order subsystem. The HTTP
// layer gates access to it; no implementation ships with this repository.
type OrderService interface {
	// CreateOrder places a new order for the given user.
	CreateOrder(ctx context.Context, userID string, items []OrderItem) (*Order, error)

	// GetOrder retrieves an order owned by the given user.
	GetOrder(ctx context.Context, userID, id string) (*Order, error)

	// MarkOrderPaid flags an order owned by the given user as paid.
	MarkOrderPaid(ctx context.Context, userID, id string) (*Order, error)
}
