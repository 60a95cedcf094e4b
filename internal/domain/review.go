package domain

import (
	"time"
)

// Review represents a product review submitted by a user. UserName is a
// snapshot of the reviewer's display name at submission time. Reviews are
// immutable once created, and a user may hold at most one review per product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
