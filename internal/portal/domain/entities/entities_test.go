package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/domain/entities"
)

func TestSessionDecodesAPIPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"creator": {"id": 3, "username": "bob", "email": "bob@example.com", "role": "creator", "avatar_url": null},
		"title": "Pottery",
		"description": "Wheel basics",
		"date": "2025-03-01T10:00:00Z",
		"price": "25.00",
		"image_url": "https://cdn.example.com/p.png",
		"created_at": "2025-02-01T08:30:12.123456Z"
	}`

	var s entities.Session
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "25.00", s.Price)
	assert.Equal(t, int64(3), s.Creator.ID)
	require.NotNil(t, s.ImageURL)
	assert.Equal(t, 2025, s.Date.Year())
	assert.True(t, s.OwnedBy(3))
	assert.False(t, s.OwnedBy(4))
}

func TestFilterOwned(t *testing.T) {
	sessions := []entities.Session{
		{ID: 1, Creator: entities.UserRef{ID: 10}},
		{ID: 2, Creator: entities.UserRef{ID: 11}},
		{ID: 3, Creator: entities.UserRef{ID: 10}},
	}

	owned := entities.FilterOwned(sessions, 10)

	require.Len(t, owned, 2)
	assert.Equal(t, int64(1), owned[0].ID)
	assert.Equal(t, int64(3), owned[1].ID)
	assert.Empty(t, entities.FilterOwned(nil, 10))
}

func TestHasBooker(t *testing.T) {
	bookings := []entities.Booking{{ID: 1, User: entities.UserRef{ID: 5}}}

	assert.True(t, entities.HasBooker(bookings, 5))
	assert.False(t, entities.HasBooker(bookings, 6))
}

func TestRoleAndCredentials(t *testing.T) {
	user := &entities.User{ID: 1, Role: entities.RoleCreator}

	assert.True(t, user.HasRole(entities.RoleCreator))
	assert.False(t, user.HasRole(entities.RoleUser), "creator must not satisfy user role")
	assert.False(t, (*entities.User)(nil).HasRole(entities.RoleUser))
	assert.False(t, entities.Role("admin").Valid())

	assert.True(t, entities.Credentials{AccessToken: "a", RefreshToken: "r"}.Complete())
	assert.False(t, entities.Credentials{AccessToken: "a"}.Complete())
}
