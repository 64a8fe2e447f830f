package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sumire/freelance/internal/domain"
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Data  any       `json:"data,omitempty"`
	Meta  *ListMeta `json:"meta,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// ListMeta describes a list response.
type ListMeta struct {
	Count int `json:"count"`
}

// APIError represents an error in the API response.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a field-level validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes a JSON response with the standard envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Data: data})
}

// JSONList writes a JSON list response. Lists are never encoded as null.
func JSONList[T any](c echo.Context, status int, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(status, Envelope{Data: items, Meta: &ListMeta{Count: len(items)}})
}

// HTTPErrorHandler is the global error handler for echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if jsonErr := c.JSON(status, Envelope{Error: &apiErr}); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

// errorStatuses maps each domain sentinel to its response, checked in order.
// ErrNoIdentity comes before ErrUnauthorized so a missing sign-in is told
// apart from a rejected token.
var errorStatuses = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrNoIdentity, http.StatusUnauthorized, "no_identity", "No user is signed in"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "You do not have permission to perform this action"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{domain.ErrConflict, http.StatusConflict, "conflict", "The resource already exists or conflicts with current state"},
}

// mapError turns err into a status and API error. Field validation failures
// carry their field, other invalid input carries the error text, echo's own
// errors keep their status, and anything unrecognised is a logged 500.
func mapError(err error) (int, APIError) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, APIError{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: []FieldError{
				{Field: validationErr.Field, Message: validationErr.Message},
			},
		}
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest, APIError{
			Code:    "invalid_input",
			Message: err.Error(),
		}
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, APIError{Code: e.code, Message: e.message}
		}
	}

	// echo's own HTTP errors (404, 405, 429, ...)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{
			Code:    statusCode(echoErr.Code),
			Message: msg,
		}
	}

	slog.Error("unhandled error", "error", err)
	return http.StatusInternalServerError, APIError{
		Code:    "internal_error",
		Message: "An unexpected error occurred",
	}
}

// statusCode renders an HTTP status as a snake_case error code.
func statusCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
