// Command seed populates the storefront database with a demo data set: an
// admin account, two customers, and a handful of products with reviews. It is
// idempotent; re-running it wipes and recreates the demo rows.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/migrations"
	"storefront/pkg/database"
	"storefront/pkg/logger"
)

// deterministicUUID produces a stable UUID-shaped string from a namespace and
// an index so re-runs always generate the same row IDs.
func deterministicUUID(namespace string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", namespace, index)))
	hex := fmt.Sprintf("%x", h[:16])
	return fmt.Sprintf("%s-%s-4%s-%x%s-%s",
		hex[0:8],
		hex[8:12],
		hex[13:16],
		0x8|(h[8]&0x3),
		hex[17:20],
		hex[20:32],
	)
}

type seedUser struct {
	name     string
	email    string
	password string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{"Admin User", "admin@example.com", "admin12345", true},
	{"John Doe", "john@example.com", "john12345", false},
	{"Jane Doe", "jane@example.com", "jane12345", false},
}

type seedProduct struct {
	name         string
	price        float64
	image        string
	brand        string
	category     string
	countInStock int
	description  string
}

var seedProducts = []seedProduct{
	{"Airpods Wireless Bluetooth Headphones", 89.99, "/images/airpods.jpg", "Apple", "Electronics", 10,
		"Bluetooth technology lets you connect it with compatible devices wirelessly."},
	{"iPhone 13 Pro 256GB Memory", 599.99, "/images/phone.jpg", "Apple", "Electronics", 7,
		"A transformative triple-camera system that adds tons of capability without complexity."},
	{"Canon EOS 80D DSLR Camera", 929.99, "/images/camera.jpg", "Canon", "Electronics", 5,
		"Characterized by versatile imaging specs and a pair of robust focusing systems."},
	{"Sony Playstation 5", 399.99, "/images/playstation.jpg", "Sony", "Electronics", 11,
		"The ultimate home entertainment center starts with PlayStation."},
	{"Logitech G-Series Gaming Mouse", 49.99, "/images/mouse.jpg", "Logitech", "Electronics", 7,
		"Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse."},
	{"Amazon Echo Dot 3rd Generation", 29.99, "/images/alexa.jpg", "Amazon", "Electronics", 0,
		"Meet Echo Dot, our most compact smart speaker that fits perfectly into small spaces."},
}

func main() {
	log := logger.New("storefront-seed", "info")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed(ctx, pool, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seed complete",
		slog.Int("users", len(seedUsers)),
		slog.Int("products", len(seedProducts)),
	)
}

func seed(ctx context.Context, pool database.DBTX, log *slog.Logger) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Wipe demo rows first so the script is re-runnable. Reviews cascade
	// away with their products.
	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	now := time.Now().UTC()
	userIDs := make([]string, len(seedUsers))

	for i, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), 12)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.email, err)
		}

		userIDs[i] = deterministicUUID("user", i)
		_, err = tx.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userIDs[i], u.name, u.email, string(hash), u.isAdmin, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.email, err)
		}
	}

	adminID := userIDs[0]

	for i, p := range seedProducts {
		productID := deterministicUUID("product", i)
		_, err := tx.Exec(ctx,
			`INSERT INTO products (id, user_id, name, price, image, brand, category, count_in_stock, description, rating, num_reviews, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $11)`,
			productID, adminID, p.name, p.price, p.image, p.brand, p.category, p.countInStock, p.description, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.name, err)
		}

		// Every other product gets a review from each customer so listing
		// and top-rated queries have data to chew on.
		if i%2 != 0 {
			continue
		}
		for j, reviewerID := range userIDs[1:] {
			rating := 3 + (i+j)%3
			_, err := tx.Exec(ctx,
				`INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, comment, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				deterministicUUID(fmt.Sprintf("review:%d", i), j),
				productID, reviewerID, seedUsers[j+1].name, rating, "seeded review", now,
			)
			if err != nil {
				return fmt.Errorf("insert review for %q: %w", p.name, err)
			}
		}
		_, err = tx.Exec(ctx,
			`UPDATE products
			 SET rating = (SELECT AVG(rating) FROM product_reviews WHERE product_id = $1),
			     num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = $1)
			 WHERE id = $1`,
			productID,
		)
		if err != nil {
			return fmt.Errorf("recompute rating for %q: %w", p.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	log.Info("seeded demo data", slog.String("admin", seedUsers[0].email))
	return nil
}
