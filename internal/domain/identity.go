package domain

// Identity is the participant identity for a submission: either an
// authenticated user or a durable guest label, never both. The fields
// are unexported so an Identity can only be built through the
// constructors, which keeps the exactly-one invariant out of runtime
// checks.
type Identity struct {
	userID     string
	guestLabel string
}

// UserIdentity builds an Identity for an authenticated user.
func UserIdentity(userID string) Identity {
	return Identity{userID: userID}
}

// GuestIdentity builds an Identity for an unauthenticated participant.
func GuestIdentity(label string) Identity {
	return Identity{guestLabel: label}
}

// IsGuest reports whether the identity is a guest label.
func (i Identity) IsGuest() bool {
	return i.guestLabel != ""
}

// UserID returns the user reference, if this is a user identity.
func (i Identity) UserID() (string, bool) {
	return i.userID, i.userID != ""
}

// GuestLabel returns the guest label, if this is a guest identity.
func (i Identity) GuestLabel() (string, bool) {
	return i.guestLabel, i.guestLabel != ""
}

// IsZero reports whether neither side of the union is set.
func (i Identity) IsZero() bool {
	return i.userID == "" && i.guestLabel == ""
}

// Validate checks that exactly one side of the union is set.
func (i Identity) Validate() error {
	if i.IsZero() {
		return NewValidationError("identity requires a user or a guest label")
	}
	if i.userID != "" && i.guestLabel != "" {
		return NewValidationError("identity cannot be both a user and a guest")
	}
	return nil
}

// DisplayName returns the guest label for guests and the user ID for
// authenticated users. Callers wanting a username should resolve the
// user through the user repository.
func (i Identity) DisplayName() string {
	if i.IsGuest() {
		return i.guestLabel
	}
	return i.userID
}
