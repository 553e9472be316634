package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/adapters/http/middleware"
	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/domain/entities"
	"classbook/pkg/logger"
)

type fixedSnapshot auth.Snapshot

func (f fixedSnapshot) Snapshot() auth.Snapshot { return auth.Snapshot(f) }

func TestRecoveryMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewRecoveryMiddleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, string(body))
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewRequestIDMiddleware())
	app.Get("/", func(c fiber.Ctx) error {
		id, ok := logger.RequestIDFrom(middleware.RequestContext(c))
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "req-123", string(body))
	assert.Equal(t, "req-123", resp.Header.Get(middleware.HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Len(t, resp.Header.Get(middleware.HeaderRequestID), 36)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, strings.Repeat("x", logger.MaxRequestIDLen+1))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Len(t, resp.Header.Get(middleware.HeaderRequestID), 36)
}

func TestGuardMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		snap     auth.Snapshot
		status   int
		location string
	}{
		{"unresolved", auth.Snapshot{Status: auth.StatusUnresolved}, http.StatusAccepted, ""},
		{"anonymous", auth.Snapshot{Status: auth.StatusAnonymous}, http.StatusFound, "/login"},
		{"wrong role", auth.Snapshot{Status: auth.StatusAuthenticated, User: &entities.User{ID: 1, Role: entities.RoleCreator}}, http.StatusFound, "/"},
		{"allowed", auth.Snapshot{Status: auth.StatusAuthenticated, User: &entities.User{ID: 1, Role: entities.RoleUser}}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/dashboard", func(c fiber.Ctx) error {
				return c.SendString("protected")
			}, middleware.NewGuardMiddleware(fixedSnapshot(tt.snap), entities.RoleUser))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
			body, _ := io.ReadAll(resp.Body)
			if tt.status != http.StatusOK {
				assert.NotContains(t, string(body), "protected")
			}
		})
	}
}

func TestResolvedMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		snap   auth.Snapshot
		status int
	}{
		{"unresolved", auth.Snapshot{Status: auth.StatusUnresolved}, http.StatusAccepted},
		{"anonymous", auth.Snapshot{Status: auth.StatusAnonymous}, http.StatusOK},
		{"authenticated", auth.Snapshot{Status: auth.StatusAuthenticated, User: &entities.User{ID: 1, Role: entities.RoleCreator}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/create", func(c fiber.Ctx) error {
				return c.SendString("done")
			}, middleware.NewResolvedMiddleware(fixedSnapshot(tt.snap)))

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/create", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusAccepted {
				assert.Equal(t, "1", resp.Header.Get("Retry-After"))
			}
		})
	}
}
