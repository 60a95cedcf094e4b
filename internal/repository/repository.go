package repository

import (
	"context"

	"storefront/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product and review persistence
// operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns one page of products whose name contains the keyword
	// (case-insensitive; empty keyword matches everything) along with the
	// total number of matching products.
	List(ctx context.Context, keyword string, page, pageSize int) ([]domain.Product, int, error)

	// TopRated returns up to limit products ordered by descending rating,
	// with the product id as a deterministic tiebreaker.
	TopRated(ctx context.Context, limit int) ([]domain.Product, error)

	// Update overwrites an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product and its reviews from the store.
	Delete(ctx context.Context, id string) error

	// ListReviews returns all reviews of a product in submission order.
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)

	// AddReview appends a review and recomputes the product's aggregate
	// rating and review count in a single transaction. It fails with
	// ErrNotFound when the product does not exist and with a Conflict error
	// when the user already reviewed the product.
	AddReview(ctx context.Context, review *domain.Review) error
}
