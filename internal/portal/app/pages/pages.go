// Package pages собирает модели представлений страниц портала и выполняет действия на них.
// Ошибки страниц показываются как встроенные сообщения; ничего не повторяется.
package pages

import (
	"context"

	"github.com/go-playground/validator/v10"

	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/api"
)

// Маршруты страниц.
const (
	PathHome             = "/"
	PathLogin            = "/login"
	PathClass            = "/class/%d"
	PathUserDashboard    = "/dashboard"
	PathCreatorDashboard = "/creator/dashboard"
	PathCreateClass      = "/creator/dashboard?create=true"
	PathEditClass        = "/creator/dashboard?edit=%d"
)

// Сообщения, которые видит пользователь.
const (
	MsgLoadClassesFailed     = "Failed to load classes"
	MsgLoadClassFailed       = "Failed to load class details"
	MsgEnrollFailed          = "Failed to enroll in class"
	MsgEnrolled              = "Successfully enrolled in class!"
	MsgDeleteClassFailed     = "Failed to delete class"
	MsgLoadEnrollmentsFailed = "Failed to load your enrollments"
	MsgCancelFailed          = "Failed to cancel enrollment"
	MsgAvatarFailed          = "Failed to update profile picture"
	MsgLoadOwnClassesFailed  = "Failed to load your classes"
	MsgLoadRosterFailed      = "Failed to load enrollments"
	MsgCreateClassFailed     = "Failed to create class"
	MsgUpdateClassFailed     = "Failed to update class"
	MsgClassNotOwned         = "Class not found among your classes"
	MsgLoginFailed           = "Login failed"
	MsgSelectRoleFailed      = "Failed to select role"
	MsgMissingTokens         = "Both access and refresh tokens are required"
	MsgCreatorOnly           = "To create classes, please login as a Teacher. You can logout and login again selecting the Teacher option."
)

// Константы для логирования.
const (
	LogPageLoadFailed = "pages: load failed"
	LogActionFailed   = "pages: action failed"
)

// Session - то, что страницам нужно от контроллера аутентификации.
type Session interface {
	Snapshot() auth.Snapshot
	Login(ctx context.Context, access, refresh string) (auth.Snapshot, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (auth.Snapshot, error)
}

var _ Session = (*auth.Controller)(nil)

// Service - страницы портала.
type Service struct {
	market   api.Marketplace
	session  Session
	validate *validator.Validate
}

// NewService создает сервис страниц.
func NewService(market api.Marketplace, session Session) *Service {
	return &Service{
		market:   market,
		session:  session,
		validate: newValidator(),
	}
}

func (s *Service) viewer() *entities.User {
	return s.session.Snapshot().User
}

// Result - итог действия: перенаправление, уведомление или ошибка.
type Result struct {
	Redirect string `json:"redirect,omitempty"`
	Notice   string `json:"notice,omitempty"`
	Error    string `json:"error,omitempty"`
}

func redirect(path string) Result {
	return Result{Redirect: path}
}

// RoleHome возвращает домашнюю страницу роли.
func RoleHome(user *entities.User) string {
	switch {
	case user.HasRole(entities.RoleCreator):
		return PathCreatorDashboard
	case user.HasRole(entities.RoleUser):
		return PathUserDashboard
	default:
		return PathHome
	}
}
