package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/pkg/httputil"
	"storefront/pkg/validator"
)

// AddReviewRequest is the JSON request body for a review submission.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// AddReview handles POST /api/v1/products/{id}/reviews. One review per user
// per product; a second submission yields a conflict.
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviewer := CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req AddReviewRequest
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

	if err := h.service.AddReview(r.Context(), id.String(), reviewer, req.Rating, req.Comment); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"message": "review added"},
	})
}
