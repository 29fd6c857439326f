package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAdmin_IsLockedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-1 * time.Minute)
	future := now.Add(30 * time.Minute)

	tests := []struct {
		name        string
		lockedUntil *time.Time
		want        bool
	}{
		{
			name:        "not locked (nil)",
			lockedUntil: nil,
			want:        false,
		},
		{
			name:        "locked (future time)",
			lockedUntil: &future,
			want:        true,
		},
		{
			name:        "stale lock (past time)",
			lockedUntil: &past,
			want:        false,
		},
		{
			name:        "lock ending exactly now",
			lockedUntil: &now,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &Admin{
				ID:                 uuid.New(),
				Username:           "alice",
				AccountLockedUntil: tt.lockedUntil,
			}

			if got := admin.IsLockedAt(now); got != tt.want {
				t.Errorf("IsLockedAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdmin_Identity(t *testing.T) {
	id := uuid.New()
	admin := &Admin{
		ID:                  id,
		Username:            "alice",
		PasswordHash:        "$argon2id$v=19$m=65536,t=1,p=4$...",
		FailedLoginAttempts: 2,
		ForcePasswordChange: true,
	}

	identity := admin.Identity()

	if identity.ID != id {
		t.Errorf("ID: got %v, want %v", identity.ID, id)
	}
	if identity.Username != "alice" {
		t.Errorf("Username: got %q, want %q", identity.Username, "alice")
	}
	if !identity.ForcePasswordChange {
		t.Error("ForcePasswordChange should be true")
	}

	session := identity.Session()
	if session.Username != "alice" || !session.ForcePasswordChange {
		t.Errorf("Session() = %+v, want {alice true}", session)
	}
}

func TestLoginFailure_Locked(t *testing.T) {
	at := time.Now()
	until := at.Add(30 * time.Minute)
	stale := at.Add(-time.Hour)

	if (&LoginFailure{FailedLoginAttempts: 3, LastFailedLogin: at}).Locked() {
		t.Error("failure without lock reported Locked")
	}
	if (&LoginFailure{FailedLoginAttempts: 3, LastFailedLogin: at, AccountLockedUntil: &stale}).Locked() {
		t.Error("failure carrying an expired lock reported Locked")
	}
	if !(&LoginFailure{FailedLoginAttempts: 5, LastFailedLogin: at, AccountLockedUntil: &until}).Locked() {
		t.Error("failure with lock should report Locked")
	}
}
