package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/storage"
	"classbook/pkg/logger"
)

// Константы для логирования.
const (
	ErrorFailedToReadFile   = "failed to read token file"
	ErrorFailedToDecodeFile = "failed to decode token file"
	ErrorFailedToWriteFile  = "failed to write token file"
	ErrorFailedToRemoveFile = "failed to remove token file"
)

const (
	tokenFileMode = 0o600
	tokenDirMode  = 0o700
)

// FileStore хранит пару токенов одним JSON документом на диске.
// Запись атомарна: временный файл переименовывается поверх старого.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ storage.TokenStore = (*FileStore)(nil)

// NewFileStore создает хранилище с файлом по пути path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type tokenDocument struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Save записывает пару токенов.
func (s *FileStore) Save(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("store", "file"), zap.String("path", s.path))

	data, err := json.Marshal(tokenDocument{AccessToken: accessToken, RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), tokenDirMode); err != nil {
		log.Error(ctx, ErrorFailedToWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		log.Error(ctx, ErrorFailedToWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		log.Error(ctx, ErrorFailedToWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		log.Error(ctx, ErrorFailedToWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if err := f.Chmod(tokenFileMode); err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read читает пару токенов. Отсутствующий или поврежденный файл - это отсутствие токенов.
func (s *FileStore) Read(ctx context.Context) (entities.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("store", "file"), zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn(ctx, ErrorFailedToReadFile, zap.Error(err))
		}
		return entities.Credentials{}, false
	}

	var doc tokenDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn(ctx, ErrorFailedToDecodeFile, zap.Error(err))
		return entities.Credentials{}, false
	}

	creds := entities.Credentials{AccessToken: doc.AccessToken, RefreshToken: doc.RefreshToken}
	if !creds.Complete() {
		return entities.Credentials{}, false
	}
	return creds, true
}

// Clear удаляет файл с токенами.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log(ctx).Error(ctx, ErrorFailedToRemoveFile, zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemoveFile, err)
	}
	return nil
}

// Close ничего не делает.
func (s *FileStore) Close() error {
	return nil
}
