package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/pkg/health"
	"storefront/pkg/middleware"
)

// RouterConfig bundles the dependencies of the HTTP router. OrderService may
// be nil, in which case the order routes are not registered.
type RouterConfig struct {
	Users   *service.UserService
	Catalog *service.CatalogService
	Orders  domain.OrderService
	Health  *health.Handler
	Logger  *slog.Logger
	CORS    CORSConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authenticate := Authenticate(cfg.Users)

	authHandler := NewAuthHandler(cfg.Users, cfg.Logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	productHandler := NewProductHandler(cfg.Catalog, cfg.Logger)
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/top", productHandler.Top)
		r.Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(authenticate)

			r.Post("/{id}/reviews", productHandler.AddReview)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	userHandler := NewUserHandler(cfg.Users, cfg.Logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticate)

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/", userHandler.ListUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	if cfg.Orders != nil {
		orderHandler := NewOrderHandler(cfg.Orders, cfg.Logger)
		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(authenticate)

			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.Get)
			r.Put("/{id}/pay", orderHandler.Pay)
		})
	}

	return r
}
