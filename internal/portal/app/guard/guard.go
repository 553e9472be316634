// Package guard решает, можно ли показать страницу при текущем состоянии аутентификации.
package guard

import (
	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/domain/entities"
)

// Маршруты, на которые ведут перенаправления.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Outcome - вид решения.
type Outcome int

// Виды решений.
const (
	// Suspend - показать нейтральную заглушку: ни содержимого, ни перенаправления.
	Suspend Outcome = iota
	Redirect
	Render
)

// String возвращает имя решения.
func (o Outcome) String() string {
	switch o {
	case Suspend:
		return "suspend"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision - решение для одной навигации.
type Decision struct {
	Outcome Outcome
	// Location задан для Redirect.
	Location string
}

// Decide применяет правила доступа. Пустая роль означает "любой вошедший пользователь".
func Decide(snap auth.Snapshot, required entities.Role) Decision {
	switch {
	case !snap.Resolved():
		return Decision{Outcome: Suspend}
	case !snap.Authenticated():
		return Decision{Outcome: Redirect, Location: LoginPath}
	case required != "" && !snap.User.HasRole(required):
		return Decision{Outcome: Redirect, Location: HomePath}
	default:
		return Decision{Outcome: Render}
	}
}
