// Package config содержит конфигурацию портала.
package config

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	pkgconfig "classbook/pkg/config"
	"classbook/pkg/logger"
)

// EnvConfigFile - переменная с путем к необязательному файлу конфигурации.
const EnvConfigFile = "PORTAL_CONFIG_FILE"

const (
	serviceName = "portal"

	LogConfigLoaded     = "portal configuration loaded"
	ErrFailedLoadConfig = "failed to load portal configuration"
)

// Config - полная конфигурация портала.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из PORTAL_CONFIG_FILE (если задан) и окружения.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, serviceName, os.Getenv(EnvConfigFile))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет значения, которые cleanenv не может проверить сам.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverRedis, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}
	if c.Storage.Driver == StorageDriverFile && c.Storage.FilePath == "" {
		return ErrEmptyTokenFile
	}
	return nil
}
