package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/pkg/httputil"
	"storefront/pkg/validator"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// UpdateProductRequest is the JSON request body for a product update. All
// fields are written; omitting one zeroes it.
type UpdateProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=500"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"count_in_stock" validate:"gte=0"`
}

// parsePage interprets the page query value, defaulting to 1 when the value
// is absent, non-numeric, or less than 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// List handles GET /api/v1/products?keyword=&page=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page := parsePage(r.URL.Query().Get("page"))

	result, err := h.service.ListProducts(r.Context(), keyword, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPagedResponse(result.Items, result.Page, result.TotalPages),
	})
}

// Top handles GET /api/v1/products/top
func (h *ProductHandler) Top(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.TopProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// Create handles POST /api/v1/products (admin). The new record carries
// placeholder values for the admin to edit.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := CurrentUser(r.Context())

	product, err := h.service.CreateProduct(r.Context(), admin.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Update handles PUT /api/v1/products/{id} (admin).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), service.UpdateProductInput{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Brand:        req.Brand,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id} (admin).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "product removed"},
	})
}
