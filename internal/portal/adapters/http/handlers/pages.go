// Package handlers содержит HTTP обработчики страниц портала.
package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"classbook/internal/portal/adapters/http/middleware"
	"classbook/internal/portal/app/navigator"
	"classbook/internal/portal/app/pages"
	"classbook/internal/portal/ports/api"
	"classbook/pkg/logger"
)

// Константы ошибок.
const (
	ErrorInvalidRequest = "invalid request"
	ErrorInvalidID      = "invalid id"
	ErrorInvalidUpload  = "invalid upload"
)

// Handler - обработчики страниц.
type Handler struct {
	pages *pages.Service
}

// NewHandler создает обработчики поверх сервиса страниц.
func NewHandler(svc *pages.Service) *Handler {
	return &Handler{pages: svc}
}

// View оборачивает модель представления страницы.
type View struct {
	Page navigator.Page `json:"page"`
	View any            `json:"view"`
}

func render(c fiber.Ctx, page navigator.Page, view any) error {
	return c.JSON(View{Page: page, View: view})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// respond переводит итог действия в перенаправление, либо показывает его на странице page.
func respond(c fiber.Ctx, page navigator.Page, res pages.Result, view any) error {
	if res.Redirect != "" {
		return middleware.Redirect(c, res.Redirect)
	}
	return c.JSON(fiber.Map{"page": page, "result": res, "view": view})
}

func pathID(c fiber.Ctx) (int64, bool) {
	return pages.ParseID(c.Params("id"))
}

// Home - GET /.
func (h *Handler) Home(c fiber.Ctx) error {
	return render(c, navigator.PageHome, h.pages.Home(middleware.RequestContext(c)))
}

// CreateIntent - POST /create.
func (h *Handler) CreateIntent(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	return respond(c, navigator.PageHome, h.pages.CreateIntent(ctx), h.pages.Home(ctx))
}

// ClassDetail - GET /class/:id.
func (h *Handler) ClassDetail(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return middleware.Redirect(c, pages.PathHome)
	}
	return render(c, navigator.PageClass, h.pages.ClassDetail(middleware.RequestContext(c), id))
}

// Enroll - POST /class/:id/enroll.
func (h *Handler) Enroll(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	res, view := h.pages.Enroll(middleware.RequestContext(c), id)
	return respond(c, navigator.PageClass, res, view)
}

// EditClass - POST /class/:id/edit.
func (h *Handler) EditClass(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	return middleware.Redirect(c, h.pages.EditIntent(id).Redirect)
}

// DeleteClass - POST /class/:id/delete.
func (h *Handler) DeleteClass(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	ctx := middleware.RequestContext(c)
	res := h.pages.DeleteClass(ctx, id)
	if res.Redirect != "" {
		return middleware.Redirect(c, res.Redirect)
	}
	return respond(c, navigator.PageClass, res, h.pages.ClassDetail(ctx, id))
}

// UserDashboard - GET /dashboard.
func (h *Handler) UserDashboard(c fiber.Ctx) error {
	return render(c, navigator.PageUserDashboard, h.pages.UserDashboard(middleware.RequestContext(c)))
}

// CancelBooking - POST /dashboard/bookings/:id/cancel.
func (h *Handler) CancelBooking(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	return render(c, navigator.PageUserDashboard, h.pages.CancelBooking(middleware.RequestContext(c), id))
}

// UpdateAvatar - POST /dashboard/avatar и /creator/dashboard/avatar, multipart поле avatar.
func (h *Handler) UpdateAvatar(page navigator.Page) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := middleware.RequestContext(c)

		header, err := c.FormFile("avatar")
		if err != nil {
			return badRequest(c, ErrorInvalidUpload)
		}
		upload, closeFn, err := openUpload(header)
		if err != nil {
			logger.Log(ctx).Warn(ctx, ErrorInvalidUpload, zap.Error(err))
			return badRequest(c, ErrorInvalidUpload)
		}
		defer closeFn()

		res := h.pages.UpdateAvatar(ctx, upload)
		if res.Redirect != "" {
			return middleware.Redirect(c, res.Redirect)
		}
		return c.JSON(fiber.Map{"page": page, "result": res})
	}
}

// CreatorDashboard - GET /creator/dashboard?create=true|edit=<id>.
func (h *Handler) CreatorDashboard(c fiber.Ctx) error {
	q := pages.CreatorQuery{Create: c.Query("create") == "true"}
	if edit, ok := pages.ParseID(c.Query("edit")); ok {
		q.Edit = edit
	}
	return render(c, navigator.PageCreatorDashboard, h.pages.CreatorDashboard(middleware.RequestContext(c), q))
}

// SubmitClass - POST /creator/dashboard/classes (создание) и
// POST /creator/dashboard/classes/:id (обновление). Поля формы и необязательный файл image.
func (h *Handler) SubmitClass(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)

	var editID int64
	if c.Params("id") != "" {
		id, ok := pathID(c)
		if !ok {
			return badRequest(c, ErrorInvalidID)
		}
		editID = id
	}

	form := pages.ClassForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Date:        c.FormValue("date"),
		Price:       c.FormValue("price"),
	}

	var image *api.Upload
	if header, err := c.FormFile("image"); err == nil {
		upload, closeFn, err := openUpload(header)
		if err != nil {
			logger.Log(ctx).Warn(ctx, ErrorInvalidUpload, zap.Error(err))
			return badRequest(c, ErrorInvalidUpload)
		}
		defer closeFn()
		image = upload
	}

	return render(c, navigator.PageCreatorDashboard, h.pages.SubmitClass(ctx, editID, form, image))
}

// DeleteOwnClass - POST /creator/dashboard/classes/:id/delete.
func (h *Handler) DeleteOwnClass(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	return render(c, navigator.PageCreatorDashboard, h.pages.DeleteOwnClass(middleware.RequestContext(c), id))
}

// Enrollments - GET /creator/dashboard/classes/:id/enrollments.
func (h *Handler) Enrollments(c fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, ErrorInvalidID)
	}
	return render(c, navigator.PageCreatorDashboard, h.pages.Enrollments(middleware.RequestContext(c), id))
}

func openUpload(header *multipart.FileHeader) (*api.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", header.Filename, err)
	}
	upload := &api.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return upload, func() { _ = file.Close() }, nil
}
