package entities

import "time"

// UserRef - краткое представление пользователя внутри занятия или записи.
type UserRef struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email,omitempty"`
	Role      Role    `json:"role,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Session - занятие (класс), созданное преподавателем.
type Session struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	// Price приходит строкой-десятичным числом, например "12.50".
	Price     string    `json:"price"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Creator   UserRef   `json:"creator"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// OwnedBy сообщает, создано ли занятие пользователем с данным id.
func (s *Session) OwnedBy(userID int64) bool {
	return s != nil && s.Creator.ID == userID
}

// Booking - запись пользователя на занятие.
type Booking struct {
	ID       int64     `json:"id"`
	User     UserRef   `json:"user"`
	Session  Session   `json:"session"`
	BookedAt time.Time `json:"booked_at,omitempty"`
}

// FilterOwned возвращает занятия, созданные пользователем userID.
func FilterOwned(sessions []Session, userID int64) []Session {
	owned := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Creator.ID == userID {
			owned = append(owned, s)
		}
	}
	return owned
}

// HasBooker сообщает, есть ли в списке запись пользователя userID.
func HasBooker(bookings []Booking, userID int64) bool {
	for _, b := range bookings {
		if b.User.ID == userID {
			return true
		}
	}
	return false
}
