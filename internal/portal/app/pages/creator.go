package pages

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	domainerrors "classbook/internal/portal/domain/errors"
	"classbook/internal/portal/ports/api"
	"classbook/pkg/logger"
)

// CreatorQuery - параметры страницы кабинета преподавателя.
type CreatorQuery struct {
	Create bool
	Edit   int64
}

// CreatorView - кабинет преподавателя.
type CreatorView struct {
	User    *entities.User     `json:"user"`
	Classes []entities.Session `json:"classes"`
	// Form открыта, если не nil. EditingID задан при редактировании.
	Form        *ClassForm         `json:"form,omitempty"`
	EditingID   int64              `json:"editing_id,omitempty"`
	FieldErrors FieldErrors        `json:"field_errors,omitempty"`
	Roster      []entities.Booking `json:"roster,omitempty"`
	RosterOf    int64              `json:"roster_of,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// CreatorDashboard возвращает занятия текущего преподавателя.
func (s *Service) CreatorDashboard(ctx context.Context, q CreatorQuery) CreatorView {
	view := s.ownClasses(ctx)

	switch {
	case q.Edit != 0:
		class := findSession(view.Classes, q.Edit)
		if class == nil {
			if view.Error == "" {
				view.Error = MsgClassNotOwned
			}
			return view
		}
		view.Form = formFrom(class)
		view.EditingID = class.ID
	case q.Create:
		view.Form = &ClassForm{}
	}
	return view
}

func (s *Service) ownClasses(ctx context.Context) CreatorView {
	user := s.viewer()
	view := CreatorView{User: user, Classes: []entities.Session{}}

	all, err := s.market.ListSessions(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "creator_dashboard"), zap.Error(err))
		view.Error = MsgLoadOwnClassesFailed
		return view
	}
	if user != nil {
		view.Classes = entities.FilterOwned(all, user.ID)
	}
	return view
}

// SubmitClass создает занятие (editID == 0) или обновляет существующее.
// Невалидная форма остается открытой и не уходит в API.
func (s *Service) SubmitClass(ctx context.Context, editID int64, form ClassForm, image *api.Upload) CreatorView {
	if msg, fields := s.check(&form); msg != "" {
		view := s.ownClasses(ctx)
		view.Form = &form
		view.EditingID = editID
		view.FieldErrors = fields
		view.Error = msg
		return view
	}

	in := &api.SessionInput{
		Title:       form.Title,
		Description: form.Description,
		Date:        form.Date,
		Price:       form.Price,
		Image:       image,
	}

	var err error
	fallback := MsgCreateClassFailed
	if editID != 0 {
		fallback = MsgUpdateClassFailed
		_, err = s.market.UpdateSession(ctx, editID, in)
	} else {
		_, err = s.market.CreateSession(ctx, in)
	}

	if err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed,
			zap.String("action", "submit_class"),
			zap.Int64("edit_id", editID),
			zap.Error(err))
		view := s.ownClasses(ctx)
		view.Form = &form
		view.EditingID = editID
		view.Error = domainerrors.MessageOf(err, fallback)
		return view
	}

	return s.ownClasses(ctx)
}

// DeleteOwnClass удаляет занятие из кабинета.
func (s *Service) DeleteOwnClass(ctx context.Context, id int64) CreatorView {
	if err := s.market.DeleteSession(ctx, id); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "delete_own_class"), zap.Int64("id", id), zap.Error(err))
		view := s.ownClasses(ctx)
		view.Error = MsgDeleteClassFailed
		return view
	}

	view := s.ownClasses(ctx)
	view.Classes = dropSession(view.Classes, id)
	return view
}

// Enrollments раскрывает список записавшихся на занятие.
func (s *Service) Enrollments(ctx context.Context, id int64) CreatorView {
	view := s.ownClasses(ctx)
	view.RosterOf = id

	roster, err := s.market.SessionBookings(ctx, id)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogPageLoadFailed, zap.String("page", "enrollments"), zap.Int64("id", id), zap.Error(err))
		view.Error = MsgLoadRosterFailed
		view.Roster = []entities.Booking{}
		return view
	}
	view.Roster = roster
	return view
}

func formFrom(class *entities.Session) *ClassForm {
	return &ClassForm{
		Title:       class.Title,
		Description: class.Description,
		Date:        class.Date.Format("2006-01-02"),
		Price:       class.Price,
	}
}

func findSession(sessions []entities.Session, id int64) *entities.Session {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

func dropSession(sessions []entities.Session, id int64) []entities.Session {
	kept := make([]entities.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return kept
}

// ParseID разбирает идентификатор из пути или параметра.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
