package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

// AccountStore is the persistence the verifier needs, keyed by username.
type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	// RecordLoginFailure increments the failure counter atomically and locks the
	// account once the counter reaches threshold.
	RecordLoginFailure(ctx context.Context, id uuid.UUID, at time.Time, threshold int, lockFor time.Duration) (*domain.LoginFailure, error)
	// RecordLoginSuccess resets the counter and clears any lock.
	RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error
}

// VerifierConfig holds optional collaborators for the verifier.
type VerifierConfig struct {
	Policy    LockoutPolicy
	Passwords PasswordVerifier
	Now       func() time.Time
	Logger    *slog.Logger
}

// Verifier checks username/password pairs and applies the lockout policy.
type Verifier struct {
	store     AccountStore
	policy    LockoutPolicy
	passwords PasswordVerifier
	now       func() time.Time
	logger    *slog.Logger
}

// NewVerifier creates a new credential verifier.
func NewVerifier(store AccountStore, cfg VerifierConfig) *Verifier {
	if cfg.Policy.Threshold <= 0 || cfg.Policy.Duration <= 0 {
		cfg.Policy = DefaultLockoutPolicy()
	}
	if cfg.Passwords == nil {
		cfg.Passwords = DefaultPasswordVerifier
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Verifier{
		store:     store,
		policy:    cfg.Policy,
		passwords: cfg.Passwords,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}
}

// Verify authenticates username and password.
//
// Unknown usernames and wrong passwords both return domain.ErrInvalidCredentials.
// A locked account returns domain.ErrAccountLocked without touching the record,
// even when the password is correct.
func (v *Verifier) Verify(ctx context.Context, username, password string) (*domain.Identity, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	admin, err := v.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			v.logger.WarnContext(ctx, "login failed", "username", username, "reason", "unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	now := v.now()
	if admin.IsLockedAt(now) {
		v.logger.WarnContext(ctx, "login refused for locked account",
			"username", admin.Username,
			"locked_until", *admin.AccountLockedUntil,
		)
		return nil, domain.ErrAccountLocked
	}

	if !v.passwords.Verify(password, admin.PasswordHash) {
		failure, err := v.store.RecordLoginFailure(ctx, admin.ID, now, v.policy.Threshold, v.policy.Duration)
		if err != nil {
			return nil, fmt.Errorf("record login failure: %w", err)
		}
		if failure.Locked() {
			v.logger.WarnContext(ctx, "account locked",
				"username", admin.Username,
				"failed_attempts", failure.FailedLoginAttempts,
				"locked_until", *failure.AccountLockedUntil,
			)
		} else {
			v.logger.WarnContext(ctx, "login failed",
				"username", admin.Username,
				"failed_attempts", failure.FailedLoginAttempts,
			)
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := v.store.RecordLoginSuccess(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("record login success: %w", err)
	}

	v.logger.InfoContext(ctx, "login succeeded", "username", admin.Username, "admin_id", admin.ID)
	if NeedsRehash(admin.PasswordHash) {
		v.logger.InfoContext(ctx, "legacy password hash; reset with catfeedctl", "username", admin.Username)
	}
	return admin.Identity(), nil
}
