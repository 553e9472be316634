package pages

import (
	"context"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/api"
	"classbook/pkg/logger"
)

// DashboardView - кабинет пользователя.
type DashboardView struct {
	User     *entities.User     `json:"user"`
	Bookings []entities.Booking `json:"bookings"`
	Error    string             `json:"error,omitempty"`
	Notice   string             `json:"notice,omitempty"`
}

// UserDashboard возвращает записи текущего пользователя.
func (s *Service) UserDashboard(ctx context.Context) DashboardView {
	view := DashboardView{User: s.viewer(), Bookings: []entities.Booking{}}

	bookings, err := s.market.MyBookings(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "dashboard"), zap.Error(err))
		view.Error = MsgLoadEnrollmentsFailed
		return view
	}
	view.Bookings = bookings
	return view
}

// CancelBooking отменяет запись и убирает ее из списка.
func (s *Service) CancelBooking(ctx context.Context, bookingID int64) DashboardView {
	if err := s.market.DeleteBooking(ctx, bookingID); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "cancel_booking"), zap.Int64("id", bookingID), zap.Error(err))
		view := s.UserDashboard(ctx)
		view.Error = MsgCancelFailed
		return view
	}

	view := s.UserDashboard(ctx)
	view.Bookings = dropBooking(view.Bookings, bookingID)
	return view
}

// UpdateAvatar загружает аватар и перечитывает профиль.
func (s *Service) UpdateAvatar(ctx context.Context, avatar *api.Upload) Result {
	if _, err := s.market.UpdateAvatar(ctx, avatar); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "update_avatar"), zap.Error(err))
		return Result{Error: MsgAvatarFailed}
	}

	snap, err := s.session.CheckAuth(ctx)
	if err != nil || !snap.Authenticated() {
		return redirect(PathLogin)
	}
	return Result{Redirect: RoleHome(snap.User)}
}

func dropBooking(bookings []entities.Booking, id int64) []entities.Booking {
	kept := make([]entities.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return kept
}
