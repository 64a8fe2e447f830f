package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/repository"
)

func newAuthService(t *testing.T, local bool) *AuthService {
	t.Helper()

	db, err := repository.Open(context.Background(), repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewAuthService(repository.NewUserRepository(db), AuthConfig{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:8080",
		LocalSignIn: local,
	})
}

func TestSignInLocalIssuesTokens(t *testing.T) {
	svc := newAuthService(t, true)
	ctx := context.Background()

	user, pair, err := svc.SignInLocal(ctx, " Ayesha@Example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "ayesha@example.com", user.Email)
	assert.Equal(t, "ayesha", user.DisplayName)
	assert.Equal(t, domain.AuthProviderLocal, user.Provider)

	identity, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Identity(), identity)

	again, _, err := svc.SignInLocal(ctx, "ayesha@example.com", "Ayesha")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	found, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha", found.DisplayName)
}

func TestSignInLocalDisabled(t *testing.T) {
	svc := newAuthService(t, false)

	_, _, err := svc.SignInLocal(context.Background(), "a@example.com", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSignInLocalRequiresEmail(t *testing.T) {
	svc := newAuthService(t, true)

	_, _, err := svc.SignInLocal(context.Background(), "  ", "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newAuthService(t, true)

	_, pair, err := svc.SignInLocal(context.Background(), "a@example.com", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.RefreshAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	refreshed, err := svc.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.ValidateToken(refreshed.AccessToken)
	assert.NoError(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	svc := newAuthService(t, true)
	issued := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	_, pair, err := svc.SignInLocal(context.Background(), "a@example.com", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newAuthService(t, true)
	other := NewAuthService(nil, AuthConfig{JWTSecret: "other"})

	pair, err := other.generateTokenPair(domain.Identity{UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
