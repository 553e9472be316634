// Package errors определяет категории ошибок портала.
package errors

import "errors"

// Категории ошибок. Ошибки адаптеров оборачивают их, чтобы вызывающий код
// мог различать случаи через errors.Is.
var (
	ErrNetwork         = errors.New("network failure")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
)

// ServerMessenger - ошибка, несущая текст от сервера.
type ServerMessenger interface {
	ServerMessage() string
}

// MessageOf возвращает текст сервера из цепочки ошибок или fallback.
func MessageOf(err error, fallback string) string {
	var m ServerMessenger
	if errors.As(err, &m) {
		if msg := m.ServerMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
