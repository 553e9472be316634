package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/storage"
	"classbook/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodSave  = "save"
	LogMethodRead  = "read"
	LogMethodClear = "clear"

	ErrorFailedToRead  = "failed to read tokens from redis"
	ErrorFailedToSave  = "failed to save tokens in redis"
	ErrorFailedToClear = "failed to clear tokens in redis"
	ErrorFailedToClose = "failed to close redis connection"
)

// RedisStore хранит токены в двух ключах Redis, которые пишутся и удаляются
// одной транзакцией MULTI/EXEC. Время жизни ключей не задается.
type RedisStore struct {
	client     *redis.Client
	accessKey  string
	refreshKey string
}

var _ storage.TokenStore = (*RedisStore)(nil)

// NewRedisStore создает хранилище поверх готового клиента. Ключи получают префикс prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client:     client,
		accessKey:  prefix + storage.KeyAccessToken,
		refreshKey: prefix + storage.KeyRefreshToken,
	}
}

// Save записывает оба ключа в одной транзакции.
func (s *RedisStore) Save(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.accessKey, accessToken, 0)
		pipe.Set(ctx, s.refreshKey, refreshToken, 0)
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}
	return nil
}

// Read читает оба ключа одним MGET.
func (s *RedisStore) Read(ctx context.Context) (entities.Credentials, bool) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRead))

	values, err := s.client.MGet(ctx, s.accessKey, s.refreshKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn(ctx, ErrorFailedToRead, zap.Error(err))
		}
		return entities.Credentials{}, false
	}

	access, _ := values[0].(string)
	refresh, _ := values[1].(string)

	creds := entities.Credentials{AccessToken: access, RefreshToken: refresh}
	if !creds.Complete() {
		return entities.Credentials{}, false
	}
	return creds, true
}

// Clear удаляет оба ключа.
func (s *RedisStore) Clear(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodClear))

	if err := s.client.Del(ctx, s.accessKey, s.refreshKey).Err(); err != nil {
		log.Error(ctx, ErrorFailedToClear, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToClear, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
