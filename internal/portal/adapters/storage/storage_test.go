package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/adapters/storage"
	"classbook/internal/portal/config"
	"classbook/internal/portal/domain/entities"
	ports "classbook/internal/portal/ports/storage"
)

func newRedisStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := storage.NewRedisStore(client, "test:")
	t.Cleanup(func() { _ = store.Close() })

	return store, s
}

func backends(t *testing.T) map[string]ports.TokenStore {
	t.Helper()

	redisStore, _ := newRedisStore(t)

	return map[string]ports.TokenStore{
		"memory": storage.NewMemoryStore(),
		"file":   storage.NewFileStore(filepath.Join(t.TempDir(), "state", "tokens.json")),
		"redis":  redisStore,
	}
}

func TestTokenStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := store.Read(ctx)
			assert.False(t, ok, "empty store must report absent")

			require.NoError(t, store.Save(ctx, "access-1", "refresh-1"))
			creds, ok := store.Read(ctx)
			require.True(t, ok)
			assert.Equal(t, entities.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}, creds)

			require.NoError(t, store.Save(ctx, "access-2", "refresh-2"))
			creds, ok = store.Read(ctx)
			require.True(t, ok)
			assert.Equal(t, "access-2", creds.AccessToken, "save must overwrite")

			require.NoError(t, store.Clear(ctx))
			_, ok = store.Read(ctx)
			assert.False(t, ok)

			assert.NoError(t, store.Clear(ctx), "clear must be idempotent")
		})
	}
}

func TestTokenStoreReportsAbsentForHalfPair(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, "access-only", ""))

			_, ok := store.Read(ctx)
			assert.False(t, ok)
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")

	require.NoError(t, storage.NewFileStore(path).Save(ctx, "a", "r"))

	creds, ok := storage.NewFileStore(path).Read(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", creds.AccessToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"access_token":"a"`)
	assert.Contains(t, string(data), `"refresh_token":"r"`)
}

func TestFileStoreCorruptedFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := storage.NewFileStore(path).Read(context.Background())
	assert.False(t, ok)
}

func TestRedisStoreKeysAndNoTTL(t *testing.T) {
	ctx := context.Background()
	store, s := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "acc", "ref"))

	s.CheckGet(t, "test:access_token", "acc")
	s.CheckGet(t, "test:refresh_token", "ref")
	assert.Zero(t, s.TTL("test:access_token"))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, s.Exists("test:access_token"))
	assert.False(t, s.Exists("test:refresh_token"))
}

func TestRedisStoreReadFailureIsAbsent(t *testing.T) {
	store, s := newRedisStore(t)
	require.NoError(t, store.Save(context.Background(), "acc", "ref"))

	s.Close()

	_, ok := store.Read(context.Background())
	assert.False(t, ok)
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	redisCfg := &config.RedisConfig{Host: host, Port: port, ConnectTimeout: time.Second, Timeout: time.Second}

	fileStore, err := storage.New(ctx, &config.StorageConfig{Driver: config.StorageDriverFile, FilePath: filepath.Join(t.TempDir(), "t.json")}, redisCfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, fileStore)

	memStore, err := storage.New(ctx, &config.StorageConfig{Driver: config.StorageDriverMemory}, redisCfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, memStore)

	redisStore, err := storage.New(ctx, &config.StorageConfig{Driver: config.StorageDriverRedis, KeyPrefix: "p:"}, redisCfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.RedisStore{}, redisStore)
	require.NoError(t, redisStore.Save(ctx, "a", "r"))
	s.CheckGet(t, "p:access_token", "a")
	assert.NoError(t, redisStore.Close())

	_, err = storage.New(ctx, &config.StorageConfig{Driver: "bogus"}, redisCfg)
	assert.ErrorIs(t, err, config.ErrUnknownStorageDriver)
}
