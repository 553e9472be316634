// Package api определяет интерфейсы доступа к REST API маркетплейса.
package api

import (
	"context"
	"io"

	"classbook/internal/portal/domain/entities"
)

// ProfileFetcher получает профиль текущего пользователя.
type ProfileFetcher interface {
	Me(ctx context.Context) (*entities.User, error)
}

// Upload - файл для multipart запроса.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// SessionInput - поля занятия для создания и обновления.
type SessionInput struct {
	Title       string
	Description string
	Date        string
	Price       string
	Image       *Upload
}

// Marketplace описывает эндпоинты API, которыми пользуются страницы.
type Marketplace interface {
	ProfileFetcher

	UpdateAvatar(ctx context.Context, avatar *Upload) (*entities.User, error)

	ListSessions(ctx context.Context) ([]entities.Session, error)
	GetSession(ctx context.Context, id int64) (*entities.Session, error)
	CreateSession(ctx context.Context, in *SessionInput) (*entities.Session, error)
	UpdateSession(ctx context.Context, id int64, in *SessionInput) (*entities.Session, error)
	DeleteSession(ctx context.Context, id int64) error
	SessionBookings(ctx context.Context, id int64) ([]entities.Booking, error)

	CreateBooking(ctx context.Context, sessionID int64) (*entities.Booking, error)
	MyBookings(ctx context.Context) ([]entities.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	ObtainToken(ctx context.Context, username, password string) (*entities.Credentials, error)
	SelectRole(ctx context.Context, role entities.Role) (string, error)
}
