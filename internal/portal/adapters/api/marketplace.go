package api

import (
	"context"
	"fmt"

	"classbook/internal/portal/domain/entities"
	ports "classbook/internal/portal/ports/api"
)

// Пути эндпоинтов относительно базового URL.
const (
	pathMe              = "/users/me/"
	pathSessions        = "/sessions/"
	pathSession         = "/sessions/%d/"
	pathSessionCreate   = "/sessions/create/"
	pathSessionUpdate   = "/sessions/%d/update/"
	pathSessionDelete   = "/sessions/%d/delete/"
	pathSessionBookings = "/sessions/%d/bookings/"
	pathBookingCreate   = "/bookings/create/"
	pathMyBookings      = "/bookings/my/"
	pathBookingDelete   = "/bookings/%d/delete/"
	pathToken           = "/token/"
	pathSetRole         = "/auth/set-role/"
)

// Marketplace связывает эндпоинты API с типизированными вызовами.
type Marketplace struct {
	client *Client
}

var _ ports.Marketplace = (*Marketplace)(nil)

// NewMarketplace создает Marketplace поверх клиента.
func NewMarketplace(client *Client) *Marketplace {
	return &Marketplace{client: client}
}

// Me возвращает профиль текущего пользователя.
func (m *Marketplace) Me(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if _, err := m.client.Get(ctx, pathMe, &user); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &user, nil
}

// UpdateAvatar загружает новый аватар, поле avatar.
func (m *Marketplace) UpdateAvatar(ctx context.Context, avatar *ports.Upload) (*entities.User, error) {
	form := NewMultipartForm().File("avatar", avatar.FileName, avatar.ContentType, avatar.Content)

	var user entities.User
	if _, err := m.client.Patch(ctx, pathMe, form, &user); err != nil {
		return nil, fmt.Errorf("updating avatar: %w", err)
	}
	return &user, nil
}

// ListSessions возвращает все занятия.
func (m *Marketplace) ListSessions(ctx context.Context) ([]entities.Session, error) {
	var sessions []entities.Session
	if _, err := m.client.Get(ctx, pathSessions, &sessions); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// GetSession возвращает одно занятие.
func (m *Marketplace) GetSession(ctx context.Context, id int64) (*entities.Session, error) {
	var session entities.Session
	if _, err := m.client.Get(ctx, fmt.Sprintf(pathSession, id), &session); err != nil {
		return nil, fmt.Errorf("fetching session %d: %w", id, err)
	}
	return &session, nil
}

// CreateSession создает занятие.
func (m *Marketplace) CreateSession(ctx context.Context, in *ports.SessionInput) (*entities.Session, error) {
	var session entities.Session
	if _, err := m.client.Post(ctx, pathSessionCreate, sessionForm(in), &session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &session, nil
}

// UpdateSession обновляет занятие.
func (m *Marketplace) UpdateSession(ctx context.Context, id int64, in *ports.SessionInput) (*entities.Session, error) {
	var session entities.Session
	if _, err := m.client.Put(ctx, fmt.Sprintf(pathSessionUpdate, id), sessionForm(in), &session); err != nil {
		return nil, fmt.Errorf("updating session %d: %w", id, err)
	}
	return &session, nil
}

// DeleteSession удаляет занятие.
func (m *Marketplace) DeleteSession(ctx context.Context, id int64) error {
	if _, err := m.client.Delete(ctx, fmt.Sprintf(pathSessionDelete, id), nil); err != nil {
		return fmt.Errorf("deleting session %d: %w", id, err)
	}
	return nil
}

// SessionBookings возвращает записи на занятие.
func (m *Marketplace) SessionBookings(ctx context.Context, id int64) ([]entities.Booking, error) {
	var bookings []entities.Booking
	if _, err := m.client.Get(ctx, fmt.Sprintf(pathSessionBookings, id), &bookings); err != nil {
		return nil, fmt.Errorf("listing bookings of session %d: %w", id, err)
	}
	return bookings, nil
}

type createBookingRequest struct {
	SessionID int64 `json:"session_id"`
}

// CreateBooking записывает текущего пользователя на занятие.
func (m *Marketplace) CreateBooking(ctx context.Context, sessionID int64) (*entities.Booking, error) {
	var booking entities.Booking
	if _, err := m.client.Post(ctx, pathBookingCreate, createBookingRequest{SessionID: sessionID}, &booking); err != nil {
		return nil, fmt.Errorf("booking session %d: %w", sessionID, err)
	}
	return &booking, nil
}

// MyBookings возвращает записи текущего пользователя.
func (m *Marketplace) MyBookings(ctx context.Context) ([]entities.Booking, error) {
	var bookings []entities.Booking
	if _, err := m.client.Get(ctx, pathMyBookings, &bookings); err != nil {
		return nil, fmt.Errorf("listing my bookings: %w", err)
	}
	return bookings, nil
}

// DeleteBooking отменяет запись.
func (m *Marketplace) DeleteBooking(ctx context.Context, id int64) error {
	if _, err := m.client.Delete(ctx, fmt.Sprintf(pathBookingDelete, id), nil); err != nil {
		return fmt.Errorf("cancelling booking %d: %w", id, err)
	}
	return nil
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ObtainToken обменивает логин и пароль на пару токенов.
func (m *Marketplace) ObtainToken(ctx context.Context, username, password string) (*entities.Credentials, error) {
	var resp tokenResponse
	if _, err := m.client.Post(ctx, pathToken, tokenRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("obtaining token: %w", err)
	}
	return &entities.Credentials{AccessToken: resp.Access, RefreshToken: resp.Refresh}, nil
}

type setRoleRequest struct {
	Role entities.Role `json:"role"`
}

type setRoleResponse struct {
	Status string `json:"status"`
	Role   string `json:"role"`
	State  string `json:"state"`
}

// SelectRole сохраняет выбранную роль перед OAuth входом и возвращает state токен.
func (m *Marketplace) SelectRole(ctx context.Context, role entities.Role) (string, error) {
	var resp setRoleResponse
	if _, err := m.client.Post(ctx, pathSetRole, setRoleRequest{Role: role}, &resp); err != nil {
		return "", fmt.Errorf("selecting role: %w", err)
	}
	return resp.State, nil
}

func sessionForm(in *ports.SessionInput) *MultipartForm {
	form := NewMultipartForm().
		Field("title", in.Title).
		Field("description", in.Description).
		Field("date", in.Date).
		Field("price", in.Price)
	if in.Image != nil {
		form.File("image", in.Image.FileName, in.Image.ContentType, in.Image.Content)
	}
	return form
}
