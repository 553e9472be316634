// Package entities содержит доменные сущности портала.
package entities

// Role - роль пользователя маркетплейса.
type Role string

// Роли.
const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
)

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleCreator
}

// User - профиль текущего пользователя, как его возвращает GET /users/me/.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// HasRole сообщает, совпадает ли роль пользователя с требуемой. Сравнение точное.
func (u *User) HasRole(role Role) bool {
	return u != nil && u.Role == role
}
