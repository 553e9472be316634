package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/config"
	"classbook/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.GetAddress())
	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.RequestTimeout)
	assert.Equal(t, config.StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, ".classbook/tokens.json", cfg.Storage.FilePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddress())
	assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.GetTimeout())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("PORTAL_HTTP_PORT", "9090")
	t.Setenv("PORTAL_API_BASE_URL", "https://classes.example.com/api")
	t.Setenv("PORTAL_STORAGE_DRIVER", "redis")
	t.Setenv("PORTAL_LOGGER_MODE", "development")

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "https://classes.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, config.StorageDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, logger.Development, cfg.Logging.GetEnvironment())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	content := "api:\n  base_url: http://api.test/api\nstorage:\n  driver: memory\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(config.EnvConfigFile, path)

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/api", cfg.API.BaseURL)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("PORTAL_STORAGE_DRIVER", "sqlite")

	cfg, err := config.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, config.ErrUnknownStorageDriver)
}
