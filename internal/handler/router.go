package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/sumire/freelance/internal/service"
)

// RouterConfig carries the dependencies and settings of the HTTP API.
type RouterConfig struct {
	Auth      *service.AuthService
	Services  *service.Services
	Validator *service.Validator

	AllowedOrigins []string
	// RateLimit is the sustained requests per second allowed per client IP;
	// zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter builds the echo instance serving the API.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = cfg.Validator

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}

	e.GET("/health", func(c echo.Context) error {
		return JSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authHandler := NewAuthHandler(cfg.Auth)
	views := NewViewHandler(cfg.Services)

	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.GET("/github", authHandler.GitHubRedirect)
	auth.GET("/github/callback", authHandler.GitHubCallback)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/local", authHandler.Local)

	// Protected routes
	protected := api.Group("", JWTAuth(cfg.Auth))
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/dashboard", views.Dashboard)
	protected.GET("/payments/summary", views.PaymentSummary)
	protected.GET("/projects/:id/progress", views.ProjectProgress)
	protected.POST("/meetings/:id/complete", views.CompleteMeeting)

	NewResourceHandler(cfg.Services.Projects).Register(protected.Group("/projects"))
	NewChildHandler(cfg.Services.Requirements).Register(protected.Group("/requirements"))
	NewChildHandler(cfg.Services.Payments).Register(protected.Group("/payments"))
	NewChildHandler(cfg.Services.Meetings).Register(protected.Group("/meetings"))

	return e
}
