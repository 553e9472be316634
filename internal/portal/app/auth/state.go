// Package auth содержит контроллер состояния аутентификации портала.
package auth

import "classbook/internal/portal/domain/entities"

// Status - фаза разрешения сессии.
type Status int

// Фазы. Unresolved бывает только до завершения первого прохода.
const (
	StatusUnresolved Status = iota
	StatusAuthenticated
	StatusAnonymous
)

// String возвращает имя фазы для логов и представлений.
func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot - неизменяемый срез состояния.
type Snapshot struct {
	Status Status
	// User задан только в StatusAuthenticated.
	User *entities.User
}

// Resolved сообщает, что проход разрешения завершен.
func (s Snapshot) Resolved() bool {
	return s.Status != StatusUnresolved
}

// Authenticated сообщает, что пользователь вошел.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

func anonymous() Snapshot {
	return Snapshot{Status: StatusAnonymous}
}

func authenticated(user *entities.User) Snapshot {
	return Snapshot{Status: StatusAuthenticated, User: user}
}
