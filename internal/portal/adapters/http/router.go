// Package http собирает HTTP сервер портала.
package http

import (
	"github.com/gofiber/fiber/v3"

	"classbook/internal/portal/adapters/http/handlers"
	"classbook/internal/portal/adapters/http/middleware"
	"classbook/internal/portal/app/navigator"
	"classbook/internal/portal/app/pages"
	"classbook/internal/portal/domain/entities"
)

// SetupRouter регистрирует маршруты портала.
func SetupRouter(app *fiber.App, svc *pages.Service, session middleware.SnapshotSource) {
	h := handlers.NewHandler(svc)

	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	views := map[navigator.Page]fiber.Handler{
		navigator.PageLogin:            h.Login,
		navigator.PageHome:             h.Home,
		navigator.PageClass:            h.ClassDetail,
		navigator.PageUserDashboard:    h.UserDashboard,
		navigator.PageCreatorDashboard: h.CreatorDashboard,
	}
	// В fiber v3 основной обработчик передается первым, middleware за ним.
	for _, route := range navigator.Routes {
		if route.Protected {
			app.Get(route.Path, views[route.Page], middleware.NewGuardMiddleware(session, route.Role))
			continue
		}
		app.Get(route.Path, views[route.Page])
	}

	resolved := middleware.NewResolvedMiddleware(session)
	creatorOnly := middleware.NewGuardMiddleware(session, entities.RoleCreator)

	// Вход и выход.
	app.Post("/login", h.PasswordLogin)
	app.Post("/login/role", h.SelectRole)
	app.Post("/logout", h.Logout)

	// Публичные действия ждут разрешения состояния.
	app.Post("/create", h.CreateIntent, resolved)
	app.Post("/class/:id/enroll", h.Enroll, resolved)

	// Действия владельца занятия.
	app.Post("/class/:id/edit", h.EditClass, creatorOnly)
	app.Post("/class/:id/delete", h.DeleteClass, creatorOnly)

	// Кабинет пользователя.
	userRoutes := app.Group(pages.PathUserDashboard)
	userRoutes.Use(middleware.NewGuardMiddleware(session, entities.RoleUser))
	userRoutes.Post("/bookings/:id/cancel", h.CancelBooking)
	userRoutes.Post("/avatar", h.UpdateAvatar(navigator.PageUserDashboard))

	// Кабинет преподавателя.
	creatorRoutes := app.Group(pages.PathCreatorDashboard)
	creatorRoutes.Use(creatorOnly)
	creatorRoutes.Post("/classes", h.SubmitClass)
	creatorRoutes.Post("/classes/:id", h.SubmitClass)
	creatorRoutes.Post("/classes/:id/delete", h.DeleteOwnClass)
	creatorRoutes.Get("/classes/:id/enrollments", h.Enrollments)
	creatorRoutes.Post("/avatar", h.UpdateAvatar(navigator.PageCreatorDashboard))

	// Неизвестный путь ведет на главную.
	app.Use(func(c fiber.Ctx) error {
		return middleware.Redirect(c, pages.PathHome)
	})
}
