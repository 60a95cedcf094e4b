package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NotFound("product", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "product with id abc not found")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("user", "u1"), http.StatusNotFound},
		{"already exists", AlreadyExists("user", "email", "a@x.com"), http.StatusConflict},
		{"conflict", Conflict("product already reviewed"), http.StatusConflict},
		{"invalid input", InvalidInput("rating must be between 1 and 5"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("invalid email or password"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin privileges required"), http.StatusForbidden},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrappedAppErrorKeepsStatus(t *testing.T) {
	err := fmt.Errorf("add review: %w", Conflict("product already reviewed"))

	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.True(t, errors.Is(err, ErrConflict))
}
