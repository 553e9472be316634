// Package middleware содержит промежуточное ПО HTTP сервера портала.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// LocalsRequestContext - ключ Locals с контекстом запроса, обогащенным request id.
const LocalsRequestContext = "requestContext"

// HeaderRequestID - заголовок идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

// RequestContext возвращает контекст запроса для вызова сервисов.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalsRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
