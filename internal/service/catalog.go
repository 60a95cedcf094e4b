package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
)

// pageSize is the fixed number of products per listing page.
const pageSize = 10

// topRatedLimit is the number of products returned by the top-rated query.
const topRatedLimit = 3

// Placeholder values for a freshly created product, meant to be edited by the
// admin afterwards.
const (
	placeholderName        = "sample name"
	placeholderImage       = "/images/sample.jpg"
	placeholderBrand       = "sample brand"
	placeholderCategory    = "sample category"
	placeholderDescription = "sample desc"
)

// CatalogEvents is the subset of the event producer used by CatalogService.
type CatalogEvents interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, productID string) error
	PublishReviewAdded(ctx context.Context, review *domain.Review) error
}

// CatalogService implements product listing, lookup, administration, and
// review submission.
type CatalogService struct {
	repo   repository.ProductRepository
	events CatalogEvents
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, events CatalogEvents, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []domain.Product
	Page       int
	TotalPages int
}

// UpdateProductInput holds the full field set for a product update. Every
// field is written unconditionally; this is a whole-record replace, not a
// partial merge.
type UpdateProductInput struct {
	Name         string
	Price        float64
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

// ListProducts returns one page of products whose name contains the keyword
// as a case-insensitive substring. Pages are fixed at ten items; a page
// beyond the last returns an empty page rather than an error.
func (s *CatalogService) ListProducts(ctx context.Context, keyword string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	products, total, err := s.repo.List(ctx, keyword, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	return &ProductPage{
		Items:      products,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a product with its reviews in submission order.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.ProductDetail, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	reviews, err := s.repo.ListReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}

	return &domain.ProductDetail{
		Product: *product,
		Reviews: reviews,
	}, nil
}

// TopProducts returns the highest-rated products, at most three, ordered by
// descending rating with the product id as tiebreaker.
func (s *CatalogService) TopProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.TopRated(ctx, topRatedLimit)
	if err != nil {
		return nil, fmt.Errorf("top rated products: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a placeholder product owned by the acting admin. The
// record is a scaffold the admin is expected to edit via UpdateProduct.
func (s *CatalogService) CreateProduct(ctx context.Context, adminID string) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New().String(),
		UserID:       adminID,
		Name:         placeholderName,
		Price:        0,
		Image:        placeholderImage,
		Brand:        placeholderBrand,
		Category:     placeholderCategory,
		CountInStock: 0,
		Description:  placeholderDescription,
		Rating:       0,
		NumReviews:   0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("created_by", adminID),
	)

	return product, nil
}

// UpdateProduct overwrites all editable fields of a product. Derived rating
// fields are untouched.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name must not be empty")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.CountInStock < 0 {
		return nil, apperrors.InvalidInput("stock count must not be negative")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.CountInStock = input.CountInStock

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.events.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product and its reviews.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.events.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// AddReview appends a review to a product on behalf of the given identity.
// The reviewer's display name is snapshotted at submission time. The
// duplicate check, the append, and the aggregate recomputation happen in one
// repository transaction, so two concurrent submissions by the same user
// cannot both succeed.
func (s *CatalogService) AddReview(ctx context.Context, productID string, reviewer *domain.User, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    reviewer.ID,
		UserName:  reviewer.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.AddReview(ctx, review); err != nil {
		return fmt.Errorf("add review: %w", err)
	}

	if err := s.events.PublishReviewAdded(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.added event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", productID),
		slog.String("user_id", reviewer.ID),
		slog.Int("rating", rating),
	)

	return nil
}
