// Package storage содержит реализации хранилища токенов.
package storage

import (
	"context"
	"sync"

	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/storage"
)

// MemoryStore хранит токены в памяти процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	creds entities.Credentials
}

var _ storage.TokenStore = (*MemoryStore)(nil)

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save сохраняет пару токенов.
func (s *MemoryStore) Save(_ context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = entities.Credentials{AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

// Read возвращает пару токенов, если оба заданы.
func (s *MemoryStore) Read(_ context.Context) (entities.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.creds.Complete() {
		return entities.Credentials{}, false
	}
	return s.creds, true
}

// Clear удаляет токены.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = entities.Credentials{}
	return nil
}

// Close ничего не делает.
func (s *MemoryStore) Close() error {
	return nil
}
