package domain

import "github.com/google/uuid"

// Identity is what a successful credential check hands to the session layer.
type Identity struct {
	ID                  uuid.UUID
	Username            string
	ForcePasswordChange bool
}

// Session is the caller-facing projection of a signed session token.
type Session struct {
	Username            string `json:"username"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

// Session projects the identity to the fields exposed to callers.
func (i *Identity) Session() Session {
	return Session{
		Username:            i.Username,
		ForcePasswordChange: i.ForcePasswordChange,
	}
}
