package api_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/adapters/api"
	"classbook/internal/portal/adapters/storage"
	"classbook/internal/portal/domain/entities"
	domainerrors "classbook/internal/portal/domain/errors"
	ports "classbook/internal/portal/ports/api"
	"classbook/internal/portal/testutil/fakeapi"
)

type fixture struct {
	fake   *fakeapi.Server
	store  *storage.MemoryStore
	market *api.Marketplace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fake := fakeapi.New(t)
	store := storage.NewMemoryStore()
	client := api.NewClient(fake.URL(), api.WithInterceptor(api.BearerInterceptor(store)))

	return &fixture{fake: fake, store: store, market: api.NewMarketplace(client)}
}

func (f *fixture) loginAs(t *testing.T, userID int64) {
	t.Helper()
	access, refresh := f.fake.IssueTokens(userID, time.Hour)
	require.NoError(t, f.store.Save(context.Background(), access, refresh))
}

func TestMarketplaceMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddUser(1, "alice", entities.RoleUser, "pw")

	_, err := f.market.Me(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	assert.Empty(t, f.fake.LastAuthorization("GET /users/me/{$}"))

	f.loginAs(t, 1)
	user, err := f.market.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, entities.RoleUser, user.Role)
	assert.True(t, strings.HasPrefix(f.fake.LastAuthorization("GET /users/me/{$}"), "Bearer "))
}

func TestMarketplaceExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.fake.AddUser(1, "alice", entities.RoleUser, "pw")

	access, refresh := f.fake.IssueTokens(1, -time.Minute)
	require.NoError(t, f.store.Save(context.Background(), access, refresh))

	_, err := f.market.Me(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	assert.Equal(t, 1, f.fake.Calls("GET /users/me/{$}"), "no retry or refresh")
	assert.Zero(t, f.fake.Calls("POST /token/{$}"))
}

func TestMarketplaceSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddUser(2, "bob", entities.RoleCreator, "pw")
	f.loginAs(t, 2)

	created, err := f.market.CreateSession(ctx, &ports.SessionInput{
		Title:       "Pottery",
		Description: "Wheel basics",
		Date:        "2030-05-01T10:00",
		Price:       "25.00",
		Image:       &ports.Upload{FileName: "p.png", ContentType: "image/png", Content: strings.NewReader("img")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.Creator.ID)
	require.NotNil(t, created.ImageURL)

	form := f.fake.LastForm("POST /sessions/create/{$}")
	assert.Equal(t, "Pottery", form["title"])
	assert.Equal(t, "p.png", form["image:filename"])

	updated, err := f.market.UpdateSession(ctx, created.ID, &ports.SessionInput{
		Title:       "Pottery II",
		Description: "Glazing",
		Date:        "2030-05-02T10:00",
		Price:       "30.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pottery II", updated.Title)

	got, err := f.market.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glazing", got.Description)

	list, err := f.market.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.market.DeleteSession(ctx, created.ID))
	assert.False(t, f.fake.HasSession(created.ID))

	_, err = f.market.GetSession(ctx, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMarketplaceCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	f.fake.AddUser(2, "bob", entities.RoleCreator, "pw")
	f.loginAs(t, 2)

	_, err := f.market.CreateSession(context.Background(), &ports.SessionInput{Title: "x"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, api.MessageOf(err, ""), "This field is required.")
}

func TestMarketplaceCreateSessionForbiddenForUser(t *testing.T) {
	f := newFixture(t)
	f.fake.AddUser(1, "alice", entities.RoleUser, "pw")
	f.loginAs(t, 1)

	_, err := f.market.CreateSession(context.Background(), &ports.SessionInput{
		Title: "t", Description: "d", Date: "2030-01-01", Price: "1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestMarketplaceBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddUser(1, "alice", entities.RoleUser, "pw")
	f.fake.AddUser(2, "bob", entities.RoleCreator, "pw")
	session := f.fake.AddSession(2, "Yoga")
	f.loginAs(t, 1)

	booking, err := f.market.CreateBooking(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, booking.Session.ID)

	_, err = f.market.CreateBooking(ctx, session.ID)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, "u have already enrolled", api.MessageOf(err, ""))

	roster, err := f.market.SessionBookings(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, entities.HasBooker(roster, 1))

	mine, err := f.market.MyBookings(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, f.market.DeleteBooking(ctx, booking.ID))
	assert.False(t, f.fake.HasBooking(booking.ID))
}

func TestMarketplaceUpdateAvatar(t *testing.T) {
	f := newFixture(t)
	f.fake.AddUser(1, "alice", entities.RoleUser, "pw")
	f.loginAs(t, 1)

	user, err := f.market.UpdateAvatar(context.Background(), &ports.Upload{
		FileName: "me.jpg", ContentType: "image/jpeg", Content: strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Contains(t, *user.AvatarURL, "me.jpg")
}

func TestMarketplaceObtainTokenAndSelectRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddUser(1, "alice", entities.RoleUser, "secret")

	_, err := f.market.ObtainToken(ctx, "alice", "wrong")
	require.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
	assert.Equal(t, "No active account found with the given credentials", api.MessageOf(err, ""))

	creds, err := f.market.ObtainToken(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, creds.Complete())

	state, err := f.market.SelectRole(ctx, entities.RoleCreator)
	require.NoError(t, err)
	assert.Equal(t, "state-creator", state)
}
