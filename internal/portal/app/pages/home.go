package pages

import (
	"context"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	"classbook/pkg/logger"
)

// HomeView - главная страница.
type HomeView struct {
	Viewer  *entities.User     `json:"viewer"`
	Classes []entities.Session `json:"classes"`
	Error   string             `json:"error,omitempty"`
}

// Home возвращает список всех занятий.
func (s *Service) Home(ctx context.Context) HomeView {
	view := HomeView{Viewer: s.viewer(), Classes: []entities.Session{}}

	classes, err := s.market.ListSessions(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "home"), zap.Error(err))
		view.Error = MsgLoadClassesFailed
		return view
	}
	view.Classes = classes
	return view
}

// CreateIntent обрабатывает кнопку "создать занятие" на главной.
// Обычный пользователь получает встроенное уведомление вместо перехода.
func (s *Service) CreateIntent(ctx context.Context) Result {
	viewer := s.viewer()
	switch {
	case viewer == nil:
		return redirect(PathLogin)
	case viewer.HasRole(entities.RoleCreator):
		return redirect(PathCreateClass)
	default:
		logger.Log(ctx).Debug(ctx, "pages: create intent by non-creator", zap.Int64("user_id", viewer.ID))
		return Result{Notice: MsgCreatorOnly}
	}
}
