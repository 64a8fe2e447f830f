package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/repository"
	"github.com/sumire/freelance/internal/service"
)

type testAPI struct {
	e *echo.Echo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := repository.Open(context.Background(), repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v := service.NewValidator()
	auth := service.NewAuthService(repository.NewUserRepository(db), service.AuthConfig{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:5173",
		LocalSignIn: true,
	})
	services := service.NewServices(service.Tables{
		Projects:     repository.NewProjectTable(db),
		Requirements: repository.NewRequirementTable(db),
		Payments:     repository.NewPaymentTable(db),
		Meetings:     repository.NewMeetingTable(db),
	}, v)

	return &testAPI{e: NewRouter(RouterConfig{
		Auth:           auth,
		Services:       services,
		Validator:      v,
		AllowedOrigins: []string{"http://localhost:5173"},
	})}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *ListMeta       `json:"meta"`
	Error *APIError       `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (a *testAPI) signIn(t *testing.T, email string) string {
	t.Helper()

	code, env := a.do(t, http.MethodPost, "/api/v1/auth/local", "", `{"email":"`+email+`"}`)
	require.Equal(t, http.StatusOK, code)

	var session struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Tokens.AccessToken)
	return session.Tokens.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(t, http.MethodGet, "/api/v1/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthorized", env.Error.Code)

	code, _ = api.do(t, http.MethodGet, "/api/v1/projects", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}
