package domain

import "time"

// AuthProvider represents an identity provider.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderGitHub AuthProvider = "github"
	AuthProviderLocal  AuthProvider = "local"
)

// User represents an authenticated user.
type User struct {
	ID          string       `json:"id" db:"id"`
	Provider    AuthProvider `json:"provider" db:"provider"`
	ProviderID  string       `json:"provider_id" db:"provider_id"`
	Email       string       `json:"email" db:"email"`
	DisplayName string       `json:"display_name" db:"display_name"`
	AvatarURL   *string      `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// Identity is the signed-in user as seen by data access: who owns the rows.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Identity returns the ownership identity of u.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email}
}
