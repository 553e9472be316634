// Package storage определяет интерфейс хранилища токенов.
package storage

import (
	"context"

	"classbook/internal/portal/domain/entities"
)

// Ключи, под которыми хранятся токены.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenStore хранит пару токенов между перезапусками.
// Оба токена всегда сохраняются и удаляются вместе.
type TokenStore interface {
	// Save перезаписывает пару токенов без проверки их формата.
	Save(ctx context.Context, accessToken, refreshToken string) error

	// Read никогда не возвращает ошибку: при отсутствии любого из токенов
	// или сбое хранилища ok равно false.
	Read(ctx context.Context) (creds entities.Credentials, ok bool)

	// Clear удаляет оба токена; повторный вызов безопасен.
	Clear(ctx context.Context) error

	Close() error
}
