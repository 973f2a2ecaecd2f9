package middleware

import (
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// SessionCookieName identifies an anonymous browser session.
	SessionCookieName = "session_id"

	// GuestLabelKey is the fiber locals key carrying the resolved guest label.
	GuestLabelKey = "guestLabel"

	// GuestSessionIDKey is the fiber locals key carrying the session ID the
	// guest label is pinned under.
	GuestSessionIDKey = "guestSessionID"

	guestSessionTTL = 30 * 24 * time.Hour
)

// ResolveGuestIdentity gives anonymous requests a durable guest label.
// The label is minted once per session cookie and pinned in Redis, so a
// guest keeps the same identity across requests and cannot submit the
// same quiz twice under a fresh name by accident. Runs after
// OptionalAuth; authenticated requests pass through untouched.
func ResolveGuestIdentity(sessionStore domain.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if AuthenticatedUserID(c) != "" {
			return c.Next()
		}

		sessionID := c.Cookies(SessionCookieName)
		if sessionID == "" {
			sessionID = util.NewULID()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				MaxAge:   int(guestSessionTTL.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		key := cache.GuestSessionKey(sessionID)
		label, err := sessionStore.Get(c.Context(), key)
		if err != nil {
			if err != domain.ErrCacheMiss {
				logger.Get().Warn("guest session lookup failed", zap.Error(err))
			}
			label = util.NewGuestLabel()
			if err := sessionStore.Set(c.Context(), key, label, guestSessionTTL); err != nil {
				logger.Get().Warn("guest session store failed", zap.Error(err))
			}
		}

		c.Locals(GuestSessionIDKey, sessionID)
		c.Locals(GuestLabelKey, label)
		return c.Next()
	}
}

// PersistGuestLabel pins a caller-supplied guest label to the current
// session, replacing the minted one for the remainder of the session.
// A store failure is logged; the label still applies to this request.
func PersistGuestLabel(c *fiber.Ctx, sessionStore domain.Cache, label string) {
	sessionID, ok := c.Locals(GuestSessionIDKey).(string)
	if !ok || sessionID == "" {
		return
	}
	if err := sessionStore.Set(c.Context(), cache.GuestSessionKey(sessionID), label, guestSessionTTL); err != nil {
		logger.Get().Warn("failed to persist guest label override", zap.Error(err))
	}
	c.Locals(GuestLabelKey, label)
}

// ResolveIdentity builds the participant identity from the request
// locals: the authenticated user when present, the session's guest
// label otherwise.
func ResolveIdentity(c *fiber.Ctx) domain.Identity {
	if userID := AuthenticatedUserID(c); userID != "" {
		return domain.UserIdentity(userID)
	}
	if label, ok := c.Locals(GuestLabelKey).(string); ok && label != "" {
		return domain.GuestIdentity(label)
	}
	return domain.Identity{}
}
