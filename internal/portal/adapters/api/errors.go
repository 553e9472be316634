package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	domainerrors "classbook/internal/portal/domain/errors"
)

// Error - ответ API со статусом вне 2xx.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	// Message - текст ошибки сервера, если его удалось извлечь.
	Message string
}

func newError(method, path string, resp *Response) *Error {
	return &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Message:    extractMessage(resp.Body),
	}
}

// Error реализует error.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is сопоставляет статус с категориями ошибок домена.
func (e *Error) Is(target error) bool {
	switch target {
	case domainerrors.ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case domainerrors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case domainerrors.ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	case domainerrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// extractMessage достает текст из тела ответа: поле error, затем detail,
// затем первую ошибку поля валидации, затем первый элемент массива.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"error", "detail", "non_field_errors"} {
			if msg := firstString(obj[key]); msg != "" {
				return msg
			}
		}

		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstString(obj[k]); msg != "" {
				return k + ": " + msg
			}
		}
		return ""
	}

	return firstString(body)
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

// ServerMessage возвращает текст, извлеченный из тела ответа.
func (e *Error) ServerMessage() string {
	return e.Message
}

// MessageOf возвращает текст ошибки сервера или fallback.
func MessageOf(err error, fallback string) string {
	return domainerrors.MessageOf(err, fallback)
}
