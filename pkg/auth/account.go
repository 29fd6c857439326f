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

// AdminStore is the persistence AccountService needs on top of AccountStore.
type AdminStore interface {
	AccountStore
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time, forceChange bool) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time, forceChange bool) error
	ResetLoginFailures(ctx context.Context, username string) error
}

// AccountService maintains admin accounts: provisioning, password changes and unlocks.
type AccountService struct {
	store     AdminStore
	policy    *PasswordPolicy
	passwords PasswordVerifier
	now       func() time.Time
	logger    *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(store AdminStore, policy *PasswordPolicy, logger *slog.Logger) *AccountService {
	if policy == nil {
		policy = DefaultPasswordPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		store:     store,
		policy:    policy,
		passwords: DefaultPasswordVerifier,
		now:       time.Now,
		logger:    logger,
	}
}

// Policy returns the password policy new passwords must satisfy.
func (s *AccountService) Policy() *PasswordPolicy {
	return s.policy
}

// Provision creates an admin account.
func (s *AccountService) Provision(ctx context.Context, username, password string, forceChange bool) (*domain.Admin, error) {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := s.policy.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	admin := &domain.Admin{
		ID:                  uuid.New(),
		Username:            username,
		PasswordHash:        hash,
		ForcePasswordChange: forceChange,
		PasswordChangedAt:   &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin provisioned", "username", username, "admin_id", admin.ID)
	return admin, nil
}

// GetByID retrieves an admin account.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return s.store.GetByID(ctx, id)
}

// ChangePassword replaces the password of a signed-in admin and clears the
// force-change flag. It returns the refreshed identity so the caller can
// reissue the session.
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, current, next, confirm string) (*domain.Identity, error) {
	if current == "" || next == "" || confirm == "" {
		return nil, domain.ErrInvalidInput
	}

	admin, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.passwords.Verify(current, admin.PasswordHash) {
		s.logger.WarnContext(ctx, "password change rejected", "username", admin.Username, "reason", "current password mismatch")
		return nil, domain.ErrInvalidCredentials
	}
	if next != confirm {
		return nil, domain.ErrPasswordMismatch
	}
	if err := s.policy.ValidatePassword(next); err != nil {
		return nil, err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, admin.ID, hash, s.now(), false); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password changed", "username", admin.Username)

	admin.ForcePasswordChange = false
	return admin.Identity(), nil
}

// ResetPassword sets a new password without knowing the old one.
// Used by operators; the admin is asked to change it at next login when forceChange is set.
func (s *AccountService) ResetPassword(ctx context.Context, username, password string, forceChange bool) error {
	if err := s.policy.ValidatePassword(password); err != nil {
		return err
	}

	admin, err := s.store.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.ResetPassword(ctx, admin.ID, hash, s.now(), forceChange); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset", "username", admin.Username, "force_password_change", forceChange)
	return nil
}

// Unlock clears the failure counter and any active lock.
func (s *AccountService) Unlock(ctx context.Context, username string) error {
	username = NormalizeUsername(username)
	if err := s.store.ResetLoginFailures(ctx, username); err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return err
		}
		return fmt.Errorf("reset login failures: %w", err)
	}

	s.logger.InfoContext(ctx, "account unlocked", "username", username)
	return nil
}
