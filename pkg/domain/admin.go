package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the persisted account record of an administrator.
// Username is unique and never changes after provisioning.
type Admin struct {
	ID                  uuid.UUID
	Username            string
	PasswordHash        string
	FailedLoginAttempts int
	LastFailedLogin     *time.Time
	AccountLockedUntil  *time.Time
	ForcePasswordChange bool
	LastLogin           *time.Time
	PasswordChangedAt   *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLockedAt returns true if the lockout window is still active at now.
// A lock that has already expired is ignored.
func (a *Admin) IsLockedAt(now time.Time) bool {
	if a.AccountLockedUntil == nil {
		return false
	}
	return a.AccountLockedUntil.After(now)
}

// Identity returns the minimal authenticated payload carried into a session.
func (a *Admin) Identity() *Identity {
	return &Identity{
		ID:                  a.ID,
		Username:            a.Username,
		ForcePasswordChange: a.ForcePasswordChange,
	}
}

// LoginFailure is the account state after a recorded failed attempt.
type LoginFailure struct {
	FailedLoginAttempts int
	LastFailedLogin     time.Time
	AccountLockedUntil  *time.Time
}

// Locked reports whether the account is locked as of the recorded failure.
func (f *LoginFailure) Locked() bool {
	return f.AccountLockedUntil != nil && f.AccountLockedUntil.After(f.LastFailedLogin)
}
