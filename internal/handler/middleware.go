package handler

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/metrics"
	"github.com/sumire/freelance/internal/service"
)

const (
	contextKeyIdentity = "identity"
)

// RequestLogger logs each HTTP request with structured fields and records its
// duration against the matched route.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Render now so the logged status is the one sent.
				c.Error(err)
			}

			status := c.Response().Status
			elapsed := time.Since(start)
			metrics.RecordHTTPRequestDuration(c.Request().Method, c.Path(), strconv.Itoa(status), elapsed)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return nil
		}
	}
}

// JWTAuth validates the Bearer token and injects the caller's identity into
// the echo context.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrUnauthorized
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || scheme != "Bearer" {
				return domain.ErrUnauthorized
			}

			identity, err := auth.ValidateToken(token)
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeyIdentity, identity)
			return next(c)
		}
	}
}

// GetIdentity extracts the authenticated identity from echo context.
func GetIdentity(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(contextKeyIdentity).(domain.Identity)
	return identity, ok && identity.UserID != ""
}

func ownerID(c echo.Context) (string, error) {
	identity, ok := GetIdentity(c)
	if !ok {
		return "", domain.ErrNoIdentity
	}
	return identity.UserID, nil
}
