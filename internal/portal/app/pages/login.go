package pages

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	domainerrors "classbook/internal/portal/domain/errors"
	"classbook/pkg/logger"
)

// LoginView - страница входа.
type LoginView struct {
	Status string         `json:"status"`
	User   *entities.User `json:"user,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Login показывает текущее состояние входа.
func (s *Service) Login(_ context.Context) LoginView {
	snap := s.session.Snapshot()
	return LoginView{Status: snap.Status.String(), User: snap.User}
}

// PasswordLogin обменивает логин и пароль на токены и входит.
func (s *Service) PasswordLogin(ctx context.Context, req LoginRequest) Result {
	if msg, _ := s.check(&req); msg != "" {
		return Result{Error: msg}
	}

	creds, err := s.market.ObtainToken(ctx, req.Username, req.Password)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "password_login"), zap.Error(err))
		return Result{Error: domainerrors.MessageOf(err, MsgLoginFailed)}
	}
	return s.completeLogin(ctx, creds.AccessToken, creds.RefreshToken)
}

// OAuthCallback принимает токены, переданные бэкендом после OAuth входа.
func (s *Service) OAuthCallback(ctx context.Context, access, refresh string) Result {
	access, refresh = strings.TrimSpace(access), strings.TrimSpace(refresh)
	if access == "" || refresh == "" {
		return Result{Error: MsgMissingTokens}
	}
	return s.completeLogin(ctx, access, refresh)
}

func (s *Service) completeLogin(ctx context.Context, access, refresh string) Result {
	snap, err := s.session.Login(ctx, access, refresh)
	if err != nil || !snap.Authenticated() {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "login"), zap.Error(err))
		return Result{Error: domainerrors.MessageOf(err, MsgLoginFailed)}
	}
	return redirect(RoleHome(snap.User))
}

// SelectRole запоминает роль на сервере перед OAuth входом и возвращает state токен.
func (s *Service) SelectRole(ctx context.Context, req RoleRequest) (string, Result) {
	if msg, _ := s.check(&req); msg != "" {
		return "", Result{Error: msg}
	}

	state, err := s.market.SelectRole(ctx, entities.Role(req.Role))
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "select_role"), zap.Error(err))
		return "", Result{Error: domainerrors.MessageOf(err, MsgSelectRoleFailed)}
	}
	return state, Result{}
}

// Logout выходит и ведет на главную.
func (s *Service) Logout(ctx context.Context) Result {
	if err := s.session.Logout(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, LogActionFailed, zap.String("action", "logout"), zap.Error(err))
	}
	return redirect(PathHome)
}
