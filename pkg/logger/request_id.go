package logger

import (
	"context"

	"github.com/google/uuid"
)

// MaxRequestIDLen - предельная длина принимаемого извне идентификатора.
const MaxRequestIDLen = 64

type requestIDKey struct{}

// ContextWithRequestID кладет в контекст идентификатор запроса и возвращает его.
// Пустой, слишком длинный или непечатный кандидат заменяется новым uuid.
func ContextWithRequestID(ctx context.Context, candidate string) (context.Context, string) {
	id := candidate
	if !acceptableRequestID(id) {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// RequestIDFrom извлекает идентификатор запроса.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// Идентификатор попадает в заголовок ответа и в логи, поэтому только видимый ASCII.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
