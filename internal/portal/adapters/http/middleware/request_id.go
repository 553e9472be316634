package middleware

import (
	"github.com/gofiber/fiber/v3"

	"classbook/pkg/logger"
)

// NewRequestIDMiddleware присваивает запросу идентификатор: входящий X-Request-ID, если он пригоден, или новый uuid.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, id := logger.ContextWithRequestID(c.Context(), c.Get(HeaderRequestID))

		c.Locals(LocalsRequestContext, ctx)
		c.Set(HeaderRequestID, id)

		return c.Next()
	}
}
