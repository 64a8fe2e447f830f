package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sumire/freelance/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", domain.ErrNoIdentity), http.StatusUnauthorized, "no_identity"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{domain.ErrConflict, http.StatusConflict, "conflict"},
		{&domain.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest, "validation_error"},
		{echo.NewHTTPError(http.StatusTooManyRequests), http.StatusTooManyRequests, "too_many_requests"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, apiErr := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestMapErrorDetails(t *testing.T) {
	status, apiErr := mapError(fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid input: nothing to update", apiErr.Message)

	wrapped := fmt.Errorf("create payment: %w", &domain.ValidationError{Field: "projectId", Message: "unknown project"})
	status, apiErr = mapError(wrapped)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []FieldError{{Field: "projectId", Message: "unknown project"}}, apiErr.Details)

	// A missing sign-in is reported apart from a rejected token.
	_, apiErr = mapError(errors.Join(domain.ErrNoIdentity, domain.ErrUnauthorized))
	assert.Equal(t, "no_identity", apiErr.Code)
}
