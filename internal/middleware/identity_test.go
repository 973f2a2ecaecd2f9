package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySessionStore is an in-memory domain.Cache for middleware tests.
type memorySessionStore struct {
	entries map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{entries: make(map[string]string)}
}

func (s *memorySessionStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return value, nil
}

func (s *memorySessionStore) Set(_ context.Context, key string, value string, _ time.Duration) error {
	s.entries[key] = value
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func (s *memorySessionStore) Ping(_ context.Context) error {
	return nil
}

func newGuestApp(store domain.Cache, pre ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append(pre, middleware.ResolveGuestIdentity(store), func(c *fiber.Ctx) error {
		label, _ := c.Locals(middleware.GuestLabelKey).(string)
		return c.SendString(label)
	})
	app.Get("/whoami", handlers...)
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestResolveGuestIdentityMintsDurableLabel(t *testing.T) {
	store := newMemorySessionStore()
	app := newGuestApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	first := readBody(t, resp)
	assert.Contains(t, first, "Guest-")
	cookie := sessionCookie(t, resp)

	// The same session keeps the same label on the next request.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, first, readBody(t, resp))
}

func TestResolveGuestIdentitySkipsAuthenticatedRequests(t *testing.T) {
	store := newMemorySessionStore()
	app := newGuestApp(store, func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, "user1")
		return c.Next()
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Empty(t, readBody(t, resp))
	assert.Empty(t, store.entries)
}

func TestPersistGuestLabelOverridesForRestOfSession(t *testing.T) {
	store := newMemorySessionStore()
	app := fiber.New()
	app.Get("/whoami", middleware.ResolveGuestIdentity(store), func(c *fiber.Ctx) error {
		label, _ := c.Locals(middleware.GuestLabelKey).(string)
		return c.SendString(label)
	})
	app.Post("/rename", middleware.ResolveGuestIdentity(store), func(c *fiber.Ctx) error {
		middleware.PersistGuestLabel(c, store, "Guest-custom")
		label, _ := c.Locals(middleware.GuestLabelKey).(string)
		return c.SendString(label)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/rename", nil))
	require.NoError(t, err)
	assert.Equal(t, "Guest-custom", readBody(t, resp))
	cookie := sessionCookie(t, resp)

	// The override replaces the minted label for the whole session.
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "Guest-custom", readBody(t, resp))
}
