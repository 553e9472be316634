// Package navigator содержит таблицу маршрутов портала и навигацию по ней без браузера.
package navigator

import (
	"strconv"
	"strings"

	"classbook/internal/portal/domain/entities"
)

// Page - страница портала.
type Page string

// Страницы.
const (
	PageHome             Page = "home"
	PageLogin            Page = "login"
	PageClass            Page = "class"
	PageUserDashboard    Page = "dashboard"
	PageCreatorDashboard Page = "creator_dashboard"
)

// Route - маршрут. Protected маршруты проходят через проверку доступа с ролью Role.
type Route struct {
	Page      Page
	Path      string
	Protected bool
	Role      entities.Role
}

// Routes - все маршруты портала. Неизвестный путь ведет на главную.
var Routes = []Route{
	{Page: PageLogin, Path: "/login"},
	{Page: PageHome, Path: "/"},
	{Page: PageClass, Path: "/class/:id"},
	{Page: PageUserDashboard, Path: "/dashboard", Protected: true, Role: entities.RoleUser},
	{Page: PageCreatorDashboard, Path: "/creator/dashboard", Protected: true, Role: entities.RoleCreator},
}

// Params - параметры пути.
type Params map[string]string

// ID возвращает числовой параметр :id.
func (p Params) ID() (int64, bool) {
	id, err := strconv.ParseInt(p["id"], 10, 64)
	return id, err == nil && id > 0
}

// Match ищет маршрут для пути.
func Match(path string) (Route, Params, bool) {
	segments := split(path)
	for _, route := range Routes {
		if params, ok := matchSegments(split(route.Path), segments); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, segments []string) (Params, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	params := Params{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segments[i] == "" {
				return nil, false
			}
			params[name] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
