package auth

import (
	"time"

	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/pkg/domain"
)

const (
	// DefaultLockoutThreshold is the failure count that locks an account.
	DefaultLockoutThreshold = 5
	// DefaultLockoutDuration is how long a locked account refuses logins.
	DefaultLockoutDuration = 30 * time.Minute
)

// LockoutPolicy decides when repeated failures lock an account.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

// DefaultLockoutPolicy returns the 5 attempts / 30 minutes policy.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		Threshold: DefaultLockoutThreshold,
		Duration:  DefaultLockoutDuration,
	}
}

// NewLockoutPolicy creates a LockoutPolicy from config, falling back to defaults.
func NewLockoutPolicy(cfg config.LockoutConfig) LockoutPolicy {
	p := LockoutPolicy{Threshold: cfg.Threshold, Duration: cfg.Duration}
	if p.Threshold <= 0 {
		p.Threshold = DefaultLockoutThreshold
	}
	if p.Duration <= 0 {
		p.Duration = DefaultLockoutDuration
	}
	return p
}

// NextFailure computes the account state after one more failed attempt.
// Stores that cannot update atomically in the database apply it under their own lock.
func (p LockoutPolicy) NextFailure(previousAttempts int, now time.Time) domain.LoginFailure {
	f := domain.LoginFailure{
		FailedLoginAttempts: previousAttempts + 1,
		LastFailedLogin:     now,
	}
	if f.FailedLoginAttempts >= p.Threshold {
		until := now.Add(p.Duration)
		f.AccountLockedUntil = &until
	}
	return f
}
