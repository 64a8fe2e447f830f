// Package client talks to the freelance HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sumire/freelance/internal/domain"
)

// Client is an authenticated HTTP client for the /api/v1 routes.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the access token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the access token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Tokens is the token pair returned by a sign-in.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignInLocal signs in by email and keeps the returned access token.
func (c *Client) SignInLocal(ctx context.Context, email, name string) (domain.User, Tokens, error) {
	var resp struct {
		User   domain.User `json:"user"`
		Tokens Tokens      `json:"tokens"`
	}
	body := map[string]string{"email": email, "name": name}
	if err := c.do(ctx, http.MethodPost, "/auth/local", nil, body, &resp); err != nil {
		return domain.User{}, Tokens{}, err
	}
	c.SetToken(resp.Tokens.AccessToken)
	return resp.User, resp.Tokens, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user)
	return user, err
}

// Dashboard fetches the overview aggregates.
func (c *Client) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var d domain.Dashboard
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &d)
	return d, err
}

// PaymentTotals fetches payment totals, optionally for one project.
func (c *Client) PaymentTotals(ctx context.Context, projectID string) (domain.PaymentTotals, error) {
	var t domain.PaymentTotals
	err := c.do(ctx, http.MethodGet, "/payments/summary", projectQuery(projectID), nil, &t)
	return t, err
}

// ProjectProgress fetches requirement progress for a project.
func (c *Client) ProjectProgress(ctx context.Context, projectID string) (domain.Progress, error) {
	var p domain.Progress
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/progress", nil, nil, &p)
	return p, err
}

// CompleteMeeting marks a meeting as held.
func (c *Client) CompleteMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	var m domain.Meeting
	err := c.do(ctx, http.MethodPost, "/meetings/"+url.PathEscape(id)+"/complete", nil, nil, &m)
	return m, err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Error != nil {
		apiErr := &Error{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			if len(env.Error.Details) > 0 {
				apiErr.Field = env.Error.Details[0].Field
				apiErr.Detail = env.Error.Details[0].Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

func projectQuery(projectID string) url.Values {
	if projectID == "" {
		return nil
	}
	return url.Values{"project_id": {projectID}}
}

// Error is an error response from the API. It unwraps to the matching
// domain error so callers can use errors.Is.
type Error struct {
	Status  int
	Code    string
	Message string
	Field   string
	Detail  string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d %s: %s: %s", e.Status, e.Code, e.Field, e.Detail)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the error code back to its domain error.
func (e *Error) Unwrap() error {
	switch e.Code {
	case "not_found":
		return domain.ErrNotFound
	case "no_identity":
		return domain.ErrNoIdentity
	case "unauthorized":
		return domain.ErrUnauthorized
	case "forbidden":
		return domain.ErrForbidden
	case "invalid_input":
		return domain.ErrInvalidInput
	case "conflict":
		return domain.ErrConflict
	case "validation_error":
		return &domain.ValidationError{Field: e.Field, Message: e.Detail}
	}
	return nil
}

// IsAuthError reports whether err means the token is missing or rejected.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNoIdentity)
}
