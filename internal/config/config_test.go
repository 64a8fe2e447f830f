package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(map[string]string{"JWT_SECRET": "s"})
	require.NoError(t, err)

	want := Defaults()
	want.JWTSecret = "s"
	assert.Equal(t, want, cfg)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := load(map[string]string{})
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := load(map[string]string{
		"JWT_SECRET":       "s",
		"PORT":             "9090",
		"DATABASE_DRIVER":  "sqlite",
		"DATABASE_URL":     "freelance.db",
		"LOCAL_SIGN_IN":    "true",
		"ACCESS_TOKEN_TTL": "1h",
		"RATE_LIMIT":       "0",
		"LOG_LEVEL":        "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.True(t, cfg.LocalSignIn)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Zero(t, cfg.RateLimit)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freelance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7000
jwt_secret: from-file
rate_burst: 5
frontend_url: https://app.example.com
`), 0o600))

	cfg, err := load(map[string]string{
		FileEnv: path,
		"PORT":  "7001",
	})
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freelance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt_secret: s\nbogus: 1\n"), 0o600))

	_, err := load(map[string]string{FileEnv: path})
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"bad driver", map[string]string{"JWT_SECRET": "s", "DATABASE_DRIVER": "mysql"}},
		{"negative rate", map[string]string{"JWT_SECRET": "s", "RATE_LIMIT": "-1"}},
		{"bad log level", map[string]string{"JWT_SECRET": "s", "LOG_LEVEL": "loud"}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "PORT": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.environ)
			assert.Error(t, err)
		})
	}
}
