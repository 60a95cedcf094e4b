package domain

import (
	"time"
)

// Product represents a product in the catalog. Rating and NumReviews are
// derived from the product's reviews and recomputed whenever a review is
// appended; they are never written independently.
type Product struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	CountInStock int       `json:"count_in_stock"`
	Description  string    `json:"description"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"num_reviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductDetail is a product together with its reviews in submission order.
type ProductDetail struct {
	Product
	Reviews []Review `json:"reviews"`
}
