package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"classbook/internal/portal/config"
	"classbook/internal/portal/ports/storage"
	pkgredis "classbook/pkg/db/redis"
	"classbook/pkg/logger"
)

// LogStoreSelected пишется при выборе драйвера.
const LogStoreSelected = "token store selected"

// New создает хранилище токенов по настройкам.
func New(ctx context.Context, cfg *config.StorageConfig, redisCfg *config.RedisConfig) (storage.TokenStore, error) {
	logger.Log(ctx).Info(ctx, LogStoreSelected, zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.StorageDriverFile:
		return NewFileStore(cfg.FilePath), nil
	case config.StorageDriverMemory:
		return NewMemoryStore(), nil
	case config.StorageDriverRedis:
		client, err := pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:           redisCfg.Host,
			Port:           redisCfg.Port,
			Password:       redisCfg.Password,
			DB:             redisCfg.DB,
			PoolSize:       redisCfg.PoolSize,
			ConnectTimeout: redisCfg.ConnectTimeout,
			Timeout:        redisCfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating redis token store: %w", err)
		}
		return NewRedisStore(client.RawClient(), cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, cfg.Driver)
	}
}
