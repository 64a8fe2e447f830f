package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/domain"
)

// openTestDB opens a migrated in-memory SQLite database.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *sqlx.DB, providerID string) *domain.User {
	t.Helper()

	u, err := NewUserRepository(db).Upsert(context.Background(), domain.User{
		Provider:    domain.AuthProviderLocal,
		ProviderID:  providerID,
		Email:       providerID + "@example.com",
		DisplayName: providerID,
	})
	require.NoError(t, err)
	return u
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func ptr[T any](v T) *T { return &v }
