package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600); err != nil {
		t.Fatalf("failed to write secret %s: %v", name, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StrategyJWT, cfg.SessionStrategy)
	// Outside production the JWT secret falls back to a development value.
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigAdminEmails(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("ADMIN_EMAILS", "Admin@Example.com, second@example.com ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@example.com", "second@example.com"}, cfg.AdminEmails)
}

func TestLoadConfigRejectsUnknownStrategy(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SESSION_STRATEGY", "cookie")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigSecretsFromFiles(t *testing.T) {
	t.Setenv("ENV", "test")
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	writeSecret(t, secretsDir, "jwt_secret", "from-file\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"admin@example.com"}}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("ADMIN@EXAMPLE.COM"))
	assert.True(t, cfg.IsAdminEmail("  admin@example.com  "))
	assert.False(t, cfg.IsAdminEmail("user@example.com"))
	assert.False(t, cfg.IsAdminEmail(""))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
