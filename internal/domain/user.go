package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can clock in and out.
// PINHash is a bcrypt hash; the raw PIN never leaves the auth layer.
// PINLookup is a deterministic digest of the PIN used to locate the
// account at login and to enforce PIN uniqueness.
type User struct {
	ID        uuid.UUID
	Name      string
	PINHash   string
	PINLookup string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSuspended reports whether the account is suspended.
func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// Snapshot returns the audited subset of the user's state.
// Used for before/after snapshots on suspension and deletion notes.
func (u *User) Snapshot() map[string]any {
	return map[string]any{
		"name":   u.Name,
		"role":   u.Role.String(),
		"status": u.Status.String(),
	}
}
