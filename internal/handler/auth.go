package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/service"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SessionResponse is returned by every successful sign-in.
type SessionResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// GoogleRedirect redirects the user to Google's OAuth consent page.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	return redirectWithState(c, h.auth.GoogleAuthURL)
}

// GoogleCallback handles the OAuth callback from Google.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	return oauthCallback(c, h.auth.GoogleCallback)
}

// GitHubRedirect redirects the user to GitHub's OAuth consent page.
func (h *AuthHandler) GitHubRedirect(c echo.Context) error {
	return redirectWithState(c, h.auth.GitHubAuthURL)
}

// GitHubCallback handles the OAuth callback from GitHub.
func (h *AuthHandler) GitHubCallback(c echo.Context) error {
	return oauthCallback(c, h.auth.GitHubCallback)
}

// Local signs in by email when local sign-in is enabled.
func (h *AuthHandler) Local(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	user, tokens, err := h.auth.SignInLocal(c.Request().Context(), body.Email, body.Name)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, SessionResponse{User: user, Tokens: tokens})
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ownerID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}

// Refresh generates a new token pair from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	if body.RefreshToken == "" {
		return fmt.Errorf("%w: refresh_token is required", domain.ErrInvalidInput)
	}

	tokens, err := h.auth.RefreshAccessToken(body.RefreshToken)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tokens)
}

type callbackFunc func(ctx context.Context, code string) (*domain.User, *service.TokenPair, error)

func redirectWithState(c echo.Context, authURL func(state string) string) error {
	state, err := generateState()
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusTemporaryRedirect, authURL(state))
}

func oauthCallback(c echo.Context, exchange callbackFunc) error {
	if err := validateOAuthState(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	code := c.QueryParam("code")
	if code == "" {
		return fmt.Errorf("%w: missing code parameter", domain.ErrInvalidInput)
	}

	user, tokens, err := exchange(c.Request().Context(), code)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, SessionResponse{User: user, Tokens: tokens})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func validateOAuthState(c echo.Context) error {
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil {
		return fmt.Errorf("missing oauth_state cookie")
	}

	queryState := c.QueryParam("state")
	if queryState == "" || queryState != cookie.Value {
		return fmt.Errorf("state mismatch")
	}

	return nil
}
