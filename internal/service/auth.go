package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	googleOAuth "golang.org/x/oauth2/google"

	"github.com/sumire/freelance/internal/domain"
)

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByProviderID(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error)
	Upsert(ctx context.Context, user domain.User) (*domain.User, error)
}

// AuthConfig holds OAuth configuration.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
	JWTSecret          string
	FrontendURL        string
	// LocalSignIn enables email-only sign-in for development and the CLI.
	LocalSignIn bool
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

// AuthService handles authentication logic.
type AuthService struct {
	users       UserStore
	jwtSecret   []byte
	google      *oauth2.Config
	github      *oauth2.Config
	localSignIn bool
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, cfg AuthConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		jwtSecret:   []byte(cfg.JWTSecret),
		localSignIn: cfg.LocalSignIn,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		now:         time.Now,
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     googleOAuth.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
			RedirectURL:  cfg.FrontendURL + "/api/v1/auth/google/callback",
		},
		github: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"user:email"},
			RedirectURL:  cfg.FrontendURL + "/api/v1/auth/github/callback",
		},
	}
}

// GoogleAuthURL returns the Google OAuth authorization URL.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// GitHubAuthURL returns the GitHub OAuth authorization URL.
func (s *AuthService) GitHubAuthURL(state string) string {
	return s.github.AuthCodeURL(state)
}

// TokenPair holds an access token and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GoogleCallback exchanges the authorization code and returns a JWT pair.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*domain.User, *TokenPair, error) {
	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("google token exchange: %w", err)
	}

	userInfo, err := fetchGoogleUserInfo(ctx, s.google.Client(ctx, token))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch google user info: %w", err)
	}

	user, err := s.users.Upsert(ctx, domain.User{
		Provider:    domain.AuthProviderGoogle,
		ProviderID:  userInfo.ID,
		Email:       userInfo.Email,
		DisplayName: userInfo.Name,
		AvatarURL:   strPtr(userInfo.Picture),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upsert google user: %w", err)
	}

	pair, err := s.generateTokenPair(user.Identity())
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// GitHubCallback exchanges the authorization code and returns a JWT pair.
func (s *AuthService) GitHubCallback(ctx context.Context, code string) (*domain.User, *TokenPair, error) {
	token, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("github token exchange: %w", err)
	}

	userInfo, err := fetchGitHubUserInfo(ctx, s.github.Client(ctx, token))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch github user info: %w", err)
	}

	user, err := s.users.Upsert(ctx, domain.User{
		Provider:    domain.AuthProviderGitHub,
		ProviderID:  fmt.Sprintf("%d", userInfo.ID),
		Email:       userInfo.Email,
		DisplayName: userInfo.Login,
		AvatarURL:   strPtr(userInfo.AvatarURL),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upsert github user: %w", err)
	}

	pair, err := s.generateTokenPair(user.Identity())
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// SignInLocal signs in by email alone, creating the user on first use. It is
// only available when local sign-in is enabled.
func (s *AuthService) SignInLocal(ctx context.Context, email, name string) (*domain.User, *TokenPair, error) {
	if !s.localSignIn {
		return nil, nil, domain.ErrForbidden
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, &domain.ValidationError{Field: "email", Message: "is required"}
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user, err := s.users.Upsert(ctx, domain.User{
		Provider:    domain.AuthProviderLocal,
		ProviderID:  email,
		Email:       email,
		DisplayName: name,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upsert local user: %w", err)
	}

	pair, err := s.generateTokenPair(user.Identity())
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// ValidateToken validates a JWT access token and returns the identity it
// carries.
func (s *AuthService) ValidateToken(tokenString string) (domain.Identity, error) {
	return s.parse(tokenString, "access")
}

// RefreshAccessToken validates a refresh token and returns a new token pair.
func (s *AuthService) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	identity, err := s.parse(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(identity)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) parse(tokenString, wantType string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: parse token: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	email, _ := claims["email"].(string)

	return domain.Identity{UserID: userID, Email: email}, nil
}

func (s *AuthService) generateTokenPair(identity domain.Identity) (*TokenPair, error) {
	now := s.now()

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   identity.UserID,
		"email": identity.Email,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	accessStr, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   identity.UserID,
		"email": identity.Email,
		"type":  "refresh",
		"iat":   now.Unix(),
		"exp":   now.Add(s.refreshTTL).Unix(),
	})
	refreshStr, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessStr,
		RefreshToken: refreshStr,
	}, nil
}

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type githubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func fetchGoogleUserInfo(ctx context.Context, client *http.Client) (*googleUserInfo, error) {
	var info googleUserInfo
	if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func fetchGitHubUserInfo(ctx context.Context, client *http.Client) (*githubUserInfo, error) {
	var info githubUserInfo
	if err := getJSON(ctx, client, githubUserURL, &info); err != nil {
		return nil, err
	}
	if info.Email != "" {
		return &info, nil
	}

	// Users with a private email only expose it through the emails endpoint.
	var emails []githubEmail
	if err := getJSON(ctx, client, githubEmailsURL, &emails); err != nil {
		return nil, err
	}
	for _, e := range emails {
		if e.Primary {
			info.Email = e.Email
			return &info, nil
		}
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("no email found for github user")
	}
	info.Email = emails[0].Email
	return &info, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
