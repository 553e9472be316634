package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/app/guard"
	"classbook/internal/portal/app/pages"
	"classbook/pkg/logger"
)

const maxRedirects = 5

// ErrTooManyRedirects возвращается при зацикливании перенаправлений.
var ErrTooManyRedirects = errors.New("too many redirects")

// Session - то, что навигатору нужно от контроллера.
type Session interface {
	Await(ctx context.Context) (auth.Snapshot, error)
}

// Visit - итог открытия пути.
type Visit struct {
	// Path - путь, который в итоге показан.
	Path string `json:"path"`
	// Trail - все пройденные перенаправления по порядку.
	Trail []string `json:"trail,omitempty"`
	Page  Page     `json:"page"`
	View  any      `json:"view"`
}

// Navigator открывает пути портала так же, как это делает браузер.
type Navigator struct {
	session Session
	pages   *pages.Service
}

// New создает навигатор.
func New(session Session, svc *pages.Service) *Navigator {
	return &Navigator{session: session, pages: svc}
}

// Open открывает target, следуя перенаправлениям. Перед защищенной страницей
// ждет разрешения состояния аутентификации.
func (n *Navigator) Open(ctx context.Context, target string) (*Visit, error) {
	visit := &Visit{}

	for hop := 0; hop <= maxRedirects; hop++ {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", target, err)
		}

		next, page, view, err := n.step(ctx, u)
		if err != nil {
			return nil, err
		}
		if next == "" {
			visit.Path = u.Path
			visit.Page = page
			visit.View = view
			return visit, nil
		}

		logger.Log(ctx).Debug(ctx, "navigator: redirect", zap.String("from", target), zap.String("to", next))
		visit.Trail = append(visit.Trail, next)
		target = next
	}

	return nil, fmt.Errorf("%w: %v", ErrTooManyRedirects, visit.Trail)
}

func (n *Navigator) step(ctx context.Context, u *url.URL) (string, Page, any, error) {
	route, params, ok := Match(u.Path)
	if !ok {
		return guard.HomePath, "", nil, nil
	}

	if route.Protected {
		snap, err := n.session.Await(ctx)
		if err != nil {
			return "", "", nil, fmt.Errorf("awaiting auth state: %w", err)
		}
		decision := guard.Decide(snap, route.Role)
		if decision.Outcome == guard.Redirect {
			return decision.Location, "", nil, nil
		}
	}

	q := u.Query()

	switch route.Page {
	case PageLogin:
		if q.Has("access") || q.Has("refresh") {
			res := n.pages.OAuthCallback(ctx, q.Get("access"), q.Get("refresh"))
			if res.Redirect != "" {
				return res.Redirect, "", nil, nil
			}
			view := n.pages.Login(ctx)
			view.Error = res.Error
			return "", route.Page, view, nil
		}
		return "", route.Page, n.pages.Login(ctx), nil
	case PageHome:
		return "", route.Page, n.pages.Home(ctx), nil
	case PageClass:
		id, ok := params.ID()
		if !ok {
			return guard.HomePath, "", nil, nil
		}
		return "", route.Page, n.pages.ClassDetail(ctx, id), nil
	case PageUserDashboard:
		return "", route.Page, n.pages.UserDashboard(ctx), nil
	case PageCreatorDashboard:
		query := pages.CreatorQuery{Create: q.Get("create") == "true"}
		if edit, ok := pages.ParseID(q.Get("edit")); ok {
			query.Edit = edit
		}
		return "", route.Page, n.pages.CreatorDashboard(ctx, query), nil
	default:
		return guard.HomePath, "", nil, nil
	}
}
