package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/app/guard"
	"classbook/internal/portal/domain/entities"
)

func snapshotOf(role entities.Role) auth.Snapshot {
	return auth.Snapshot{Status: auth.StatusAuthenticated, User: &entities.User{ID: 1, Role: role}}
}

func TestDecideNeverRendersWhileUnresolved(t *testing.T) {
	for _, role := range []entities.Role{"", entities.RoleUser, entities.RoleCreator, "admin"} {
		d := guard.Decide(auth.Snapshot{Status: auth.StatusUnresolved}, role)
		assert.Equal(t, guard.Suspend, d.Outcome, "role %q", role)
		assert.Empty(t, d.Location)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		snap     auth.Snapshot
		required entities.Role
		want     guard.Decision
	}{
		{"anonymous", auth.Snapshot{Status: auth.StatusAnonymous}, entities.RoleUser, guard.Decision{Outcome: guard.Redirect, Location: "/login"}},
		{"anonymous any role", auth.Snapshot{Status: auth.StatusAnonymous}, "", guard.Decision{Outcome: guard.Redirect, Location: "/login"}},
		{"user on creator page", snapshotOf(entities.RoleUser), entities.RoleCreator, guard.Decision{Outcome: guard.Redirect, Location: "/"}},
		{"creator on user page", snapshotOf(entities.RoleCreator), entities.RoleUser, guard.Decision{Outcome: guard.Redirect, Location: "/"}},
		{"user on user page", snapshotOf(entities.RoleUser), entities.RoleUser, guard.Decision{Outcome: guard.Render}},
		{"creator on creator page", snapshotOf(entities.RoleCreator), entities.RoleCreator, guard.Decision{Outcome: guard.Render}},
		{"any role", snapshotOf(entities.RoleCreator), "", guard.Decision{Outcome: guard.Render}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.snap, tt.required))
		})
	}
}
