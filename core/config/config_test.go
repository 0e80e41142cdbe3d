package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "identity-events", cfg.Storage.Bucket)
	assert.False(t, cfg.Archive.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 300, cfg.Identity.SignatureToleranceSeconds)
	assert.False(t, cfg.Identity.CreateOnMissingUpdate)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("IDENTITY_CREATE_ON_MISSING_UPDATE", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Archive.Enabled)
	assert.True(t, cfg.Identity.CreateOnMissingUpdate)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("IDENTITY_WEBHOOK_SECRET=whsec_dGVzdA==\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() { os.Unsetenv("IDENTITY_WEBHOOK_SECRET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "whsec_dGVzdA==", cfg.Identity.WebhookSecret)
}
