package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	domainerrors "classbook/internal/portal/domain/errors"
	"classbook/pkg/logger"
)

// ClassView - страница занятия.
type ClassView struct {
	Viewer    *entities.User     `json:"viewer"`
	Class     *entities.Session  `json:"class"`
	Roster    []entities.Booking `json:"roster"`
	Enrolled  bool               `json:"enrolled"`
	CanEnroll bool               `json:"can_enroll"`
	CanManage bool               `json:"can_manage"`
	Error     string             `json:"error,omitempty"`
	Success   string             `json:"success,omitempty"`
}

// ClassDetail загружает занятие и список записавшихся.
func (s *Service) ClassDetail(ctx context.Context, id int64) ClassView {
	view := ClassView{Viewer: s.viewer(), Roster: []entities.Booking{}}

	class, err := s.market.GetSession(ctx, id)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "class"), zap.Int64("id", id), zap.Error(err))
		view.Error = MsgLoadClassFailed
		return view
	}
	view.Class = class
	s.loadRoster(ctx, &view)

	return view
}

func (s *Service) loadRoster(ctx context.Context, view *ClassView) {
	roster, err := s.market.SessionBookings(ctx, view.Class.ID)
	if err != nil {
		// Список записей необязателен для страницы.
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "class_roster"), zap.Error(err))
	} else {
		view.Roster = roster
	}

	viewer := view.Viewer
	view.Enrolled = viewer != nil && entities.HasBooker(view.Roster, viewer.ID)
	view.CanEnroll = !viewer.HasRole(entities.RoleCreator)
	view.CanManage = viewer.HasRole(entities.RoleCreator) && view.Class.OwnedBy(viewer.ID)
}

// Enroll записывает зрителя на занятие. Анонимный зритель уходит на вход без запроса к API.
func (s *Service) Enroll(ctx context.Context, id int64) (Result, ClassView) {
	if s.viewer() == nil {
		return redirect(PathLogin), ClassView{}
	}

	if _, err := s.market.CreateBooking(ctx, id); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "enroll"), zap.Int64("id", id), zap.Error(err))
		view := s.ClassDetail(ctx, id)
		msg := domainerrors.MessageOf(err, MsgEnrollFailed)
		if view.Error == "" {
			view.Error = msg
		}
		return Result{Error: msg}, view
	}

	view := s.ClassDetail(ctx, id)
	view.Success = MsgEnrolled
	return Result{Notice: MsgEnrolled}, view
}

// EditIntent ведет владельца в кабинет с открытой формой редактирования.
func (s *Service) EditIntent(id int64) Result {
	return redirect(fmt.Sprintf(PathEditClass, id))
}

// DeleteClass удаляет занятие со страницы занятия.
func (s *Service) DeleteClass(ctx context.Context, id int64) Result {
	if err := s.market.DeleteSession(ctx, id); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "delete_class"), zap.Int64("id", id), zap.Error(err))
		return Result{Error: MsgDeleteClassFailed}
	}
	return redirect(PathCreatorDashboard)
}
