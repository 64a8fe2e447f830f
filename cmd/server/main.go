package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sumire/freelance/internal/config"
	"github.com/sumire/freelance/internal/handler"
	"github.com/sumire/freelance/internal/repository"
	"github.com/sumire/freelance/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL
	if cfg.DatabaseDriver == repository.DriverSQLite {
		dsn = repository.SQLiteDSN(dsn)
	}
	db, err := repository.Open(ctx, cfg.DatabaseDriver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	slog.Info("database connected", "driver", cfg.DatabaseDriver)

	validator := service.NewValidator()

	authSvc := service.NewAuthService(repository.NewUserRepository(db), service.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GitHubClientID:     cfg.GitHubClientID,
		GitHubClientSecret: cfg.GitHubClientSecret,
		JWTSecret:          cfg.JWTSecret,
		FrontendURL:        cfg.FrontendURL,
		LocalSignIn:        cfg.LocalSignIn,
		AccessTTL:          cfg.AccessTokenTTL,
		RefreshTTL:         cfg.RefreshTokenTTL,
	})

	services := service.NewServices(service.Tables{
		Projects:     repository.NewProjectTable(db),
		Requirements: repository.NewRequirementTable(db),
		Payments:     repository.NewPaymentTable(db),
		Meetings:     repository.NewMeetingTable(db),
	}, validator)

	e := handler.NewRouter(handler.RouterConfig{
		Auth:           authSvc,
		Services:       services,
		Validator:      validator,
		AllowedOrigins: []string{cfg.FrontendURL},
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "local_sign_in", cfg.LocalSignIn)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
