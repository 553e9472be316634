package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"classbook/internal/portal/adapters/http/middleware"
	"classbook/internal/portal/app/navigator"
	"classbook/internal/portal/app/pages"
	"classbook/pkg/logger"
)

// Login - GET /login. С параметрами access и refresh работает как OAuth callback.
func (h *Handler) Login(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	access, refresh := c.Query("access"), c.Query("refresh")
	if access == "" && refresh == "" {
		return render(c, navigator.PageLogin, h.pages.Login(ctx))
	}

	res := h.pages.OAuthCallback(ctx, access, refresh)
	if res.Redirect != "" {
		return middleware.Redirect(c, res.Redirect)
	}
	view := h.pages.Login(ctx)
	view.Error = res.Error
	return render(c, navigator.PageLogin, view)
}

// PasswordLogin - POST /login с JSON {username, password}.
func (h *Handler) PasswordLogin(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	var req pages.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(ctx).Debug(ctx, ErrorInvalidRequest, zap.Error(err))
		return badRequest(c, ErrorInvalidRequest)
	}

	res := h.pages.PasswordLogin(ctx, req)
	if res.Redirect != "" {
		return middleware.Redirect(c, res.Redirect)
	}
	view := h.pages.Login(ctx)
	view.Error = res.Error
	return render(c, navigator.PageLogin, view)
}

// SelectRole - POST /login/role с JSON {role}. Возвращает state для OAuth входа.
func (h *Handler) SelectRole(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	var req pages.RoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, ErrorInvalidRequest)
	}

	state, res := h.pages.SelectRole(ctx, req)
	if res.Error != "" {
		return badRequest(c, res.Error)
	}
	return c.JSON(fiber.Map{"role": req.Role, "state": state})
}

// Logout - POST /logout.
func (h *Handler) Logout(c fiber.Ctx) error {
	return middleware.Redirect(c, h.pages.Logout(middleware.RequestContext(c)).Redirect)
}
