package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
	"storefront/pkg/database"
	apperrors "storefront/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, user_id, name, price, image, brand, category, count_in_stock, description, rating, num_reviews, created_at, updated_at`

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, user_id, name, price, image, brand, category, count_in_stock, description, rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Price,
		p.Image,
		p.Brand,
		p.Category,
		p.CountInStock,
		p.Description,
		p.Rating,
		p.NumReviews,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Price,
		&p.Image,
		&p.Brand,
		&p.Category,
		&p.CountInStock,
		&p.Description,
		&p.Rating,
		&p.NumReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// List returns one page of products whose name contains the keyword as a
// case-insensitive substring, along with the total match count. Ordering is
// newest first with the id as a deterministic tiebreaker.
func (r *ProductRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `
		SELECT ` + productColumns + `,
		       count(*) OVER() AS total_count
		FROM products
		WHERE name ILIKE $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	pattern := "%" + escapeLike(keyword) + "%"

	rows, err := r.pool.Query(ctx, query, pattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Price,
			&p.Image,
			&p.Brand,
			&p.Category,
			&p.CountInStock,
			&p.Description,
			&p.Rating,
			&p.NumReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	// A page past the end yields zero rows, so the windowed count never gets
	// scanned. Recount with the same filter so callers still see the real
	// total.
	if len(products) == 0 && page > 1 {
		countQuery := `SELECT count(*) FROM products WHERE name ILIKE $1`
		if err := r.pool.QueryRow(ctx, countQuery, pattern).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("count products: %w", err)
		}
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// TopRated returns up to limit products ordered by descending rating. Ties
// break on the product id so the result is deterministic.
func (r *ProductRepository) TopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY rating DESC, id
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Price,
			&p.Image,
			&p.Brand,
			&p.Category,
			&p.CountInStock,
			&p.Description,
			&p.Rating,
			&p.NumReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Update overwrites the editable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, price = $2, image = $3, brand = $4, category = $5,
		    count_in_stock = $6, description = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Price,
		p.Image,
		p.Brand,
		p.Category,
		p.CountInStock,
		p.Description,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database. Reviews are removed by the
// foreign key cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// ListReviews returns all reviews of a product in submission order.
func (r *ProductRepository) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.UserName,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// AddReview appends a review and recomputes the product's aggregate rating
// and review count inside one transaction. The product row is locked for the
// duration, so the duplicate check and the append are atomic with respect to
// concurrent submissions.
func (r *ProductRepository) AddReview(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID string
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, review.ProductID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", review.ProductID)
		}
		return fmt.Errorf("lock product row: %w", err)
	}

	var alreadyReviewed bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM product_reviews WHERE product_id = $1 AND user_id = $2)`,
		review.ProductID, review.UserID,
	).Scan(&alreadyReviewed)
	if err != nil {
		return fmt.Errorf("check existing review: %w", err)
	}
	if alreadyReviewed {
		return apperrors.Conflict("product already reviewed")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID,
		review.ProductID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products
		 SET rating = (SELECT AVG(rating) FROM product_reviews WHERE product_id = $1),
		     num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = $1),
		     updated_at = $2
		 WHERE id = $1`,
		review.ProductID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recompute product rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review tx: %w", err)
	}

	return nil
}

// escapeLike escapes the LIKE metacharacters in a user-supplied keyword so it
// is treated as a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
