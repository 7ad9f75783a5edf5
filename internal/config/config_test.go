package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "SANT CORPORATION", cfg.Brand.Name)
	assert.Equal(t, "SANT CORPORATION", cfg.Mail.FromName)
	assert.Equal(t, "@every 1m", cfg.Scheduler.Spec)
	assert.Equal(t, 60, cfg.Scheduler.ResetAfterMinutes)
	assert.Equal(t, 10, cfg.Import.MaxUploadMB)
	assert.False(t, cfg.Mail.Enabled)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9090\ndatabase:\n  host: filehost\nbrand:\n  name: ACME\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("JWT_SECRET", "abc")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("EMAIL_USER", "orders@example.com")
	t.Setenv("EMAIL_PASS", "pw")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ARCHIVE_ENABLED", "true")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "ACME", cfg.Brand.Name)
	assert.Equal(t, "ACME", cfg.Mail.FromName)
	assert.True(t, cfg.Mail.Enabled)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.True(t, cfg.Archive.Enabled)
}
