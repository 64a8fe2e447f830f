package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/handler"
	"github.com/sumire/freelance/internal/repository"
	"github.com/sumire/freelance/internal/service"
)

func TestRemoteSource(t *testing.T) {
	db, err := repository.Open(context.Background(), repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v := service.NewValidator()
	srv := httptest.NewServer(handler.NewRouter(handler.RouterConfig{
		Auth: service.NewAuthService(repository.NewUserRepository(db), service.AuthConfig{
			JWTSecret:   "test-secret",
			LocalSignIn: true,
		}),
		Services: service.NewServices(service.Tables{
			Projects:     repository.NewProjectTable(db),
			Requirements: repository.NewRequirementTable(db),
			Payments:     repository.NewPaymentTable(db),
			Meetings:     repository.NewMeetingTable(db),
		}, v),
		Validator: v,
	}))
	t.Cleanup(srv.Close)

	run := func(args ...string) (string, error) {
		var out, errOut bytes.Buffer
		err := Run(context.Background(), append([]string{"--api", srv.URL, "--user", "dev@example.com"}, args...),
			strings.NewReader(""), &out, &errOut)
		return out.String(), err
	}

	_, err = run("projects", "add", "--name", "Remote", "--client", "Acme", "--status", "Planning",
		"--start-date", "2024-05-01", "--deadline", "2024-06-01", "--budget", "900")
	require.NoError(t, err)

	out, err := run("projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote")
	assert.Contains(t, out, "৳900")

	var errOut bytes.Buffer
	err = Run(context.Background(), []string{"--api", srv.URL, "projects", "list"},
		strings.NewReader(""), &bytes.Buffer{}, &errOut)
	assert.ErrorContains(t, err, "--token or --user")

	err = Run(context.Background(), []string{"--api", srv.URL, "--token", "expired", "projects", "list"},
		strings.NewReader(""), &bytes.Buffer{}, &errOut)
	assert.EqualError(t, err, "token rejected, sign in again with --user or pass a new --token")
}
