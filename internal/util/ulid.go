package util

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string using crypto/rand entropy.
func NewULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewGuestLabel generates a durable pseudonymous label for an
// unauthenticated participant.
func NewGuestLabel() string {
	return "Guest-" + NewULID()
}
