package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/app/guard"
	"classbook/internal/portal/domain/entities"
	"classbook/pkg/logger"
)

// SnapshotSource отдает текущее состояние аутентификации.
type SnapshotSource interface {
	Snapshot() auth.Snapshot
}

// NewGuardMiddleware пропускает к странице только пользователя с ролью role.
// Пока состояние не разрешено, отдается заглушка 202 без содержимого страницы.
func NewGuardMiddleware(session SnapshotSource, role entities.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := RequestContext(c)
		decision := guard.Decide(session.Snapshot(), role)

		switch decision.Outcome {
		case guard.Render:
			return c.Next()
		case guard.Redirect:
			logger.Log(ctx).Debug(ctx, "guard: redirect",
				zap.String("path", c.Path()),
				zap.String("location", decision.Location))
			return Redirect(c, decision.Location)
		default:
			return suspend(c)
		}
	}
}

// NewResolvedMiddleware задерживает действие до разрешения состояния аутентификации.
// Роль не проверяется: действие само решает, что делать с анонимом.
func NewResolvedMiddleware(session SnapshotSource) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !session.Snapshot().Resolved() {
			return suspend(c)
		}
		return c.Next()
	}
}

func suspend(c fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"state": auth.StatusUnresolved.String(),
	})
}

// Redirect отвечает 302 Found на location.
func Redirect(c fiber.Ctx, location string) error {
	c.Set(fiber.HeaderLocation, location)
	return c.SendStatus(fiber.StatusFound)
}
