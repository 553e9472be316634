package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo - разобранные утверждения JWT. Подпись не проверяется.
type TokenInfo struct {
	UserID    string         `json:"user_id,omitempty"`
	TokenType string         `json:"token_type,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Expired   bool           `json:"expired"`
	Claims    map[string]any `json:"claims"`
}

// InspectToken декодирует утверждения токена для диагностики.
// Результат не влияет на состояние: решает только ответ сервера.
func InspectToken(raw string, now time.Time) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}

	info := &TokenInfo{Claims: claims}

	switch v := claims["user_id"].(type) {
	case string:
		info.UserID = v
	case float64:
		info.UserID = fmt.Sprintf("%.0f", v)
	}
	if info.UserID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			info.UserID = sub
		}
	}
	if tt, ok := claims["token_type"].(string); ok {
		info.TokenType = tt
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = !now.Before(exp.Time)
	}

	return info, nil
}
