package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/freelance/internal/domain"
)

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(
		`SELECT id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at
		 FROM users WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %s: %w", id, err)
	}
	return &user, nil
}

// FindByProviderID retrieves a user by their identity provider and provider ID.
func (r *UserRepository) FindByProviderID(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(
		`SELECT id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at
		 FROM users WHERE provider = ? AND provider_id = ?`), string(provider), providerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by provider %s/%s: %w", provider, providerID, err)
	}
	return &user, nil
}

// Upsert creates a new user or updates an existing one based on provider + provider_id.
// Returns the created or updated user; an existing user keeps its id.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	var result domain.User
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO users (id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (provider, provider_id)
		 DO UPDATE SET email = EXCLUDED.email,
		               display_name = EXCLUDED.display_name,
		               avatar_url = EXCLUDED.avatar_url,
		               updated_at = EXCLUDED.updated_at
		 RETURNING id, provider, provider_id, email, display_name, avatar_url, created_at, updated_at`),
		uuid.NewString(), string(user.Provider), user.ProviderID, user.Email, user.DisplayName, user.AvatarURL, now, now,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &result, nil
}
