package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

const adminColumns = `
	id, username, password_hash, failed_login_attempts, last_failed_login,
	account_locked_until, force_password_change, last_login, password_changed_at,
	created_at, updated_at`

// AdminsRepository handles admin account persistence.
type AdminsRepository struct {
	db *sql.DB
}

// NewAdminsRepository creates a new admins repository.
func NewAdminsRepository(db *sql.DB) *AdminsRepository {
	return &AdminsRepository{db: db}
}

// Create inserts a new admin. A duplicate username returns domain.ErrUsernameTaken.
func (r *AdminsRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, force_password_change,
		                    password_changed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.Username, admin.PasswordHash, admin.ForcePasswordChange,
		admin.PasswordChangedAt, admin.CreatedAt, admin.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

// GetByUsername retrieves an admin by username.
func (r *AdminsRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	query := `SELECT` + adminColumns + `
		FROM admins
		WHERE username = $1
	`
	return scanAdmin(r.db.QueryRowContext(ctx, query, username))
}

// GetByID retrieves an admin by ID.
func (r *AdminsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	query := `SELECT` + adminColumns + `
		FROM admins
		WHERE id = $1
	`
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

func scanAdmin(row *sql.Row) (*domain.Admin, error) {
	admin := &domain.Admin{}
	err := row.Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &admin.FailedLoginAttempts,
		&admin.LastFailedLogin, &admin.AccountLockedUntil, &admin.ForcePasswordChange,
		&admin.LastLogin, &admin.PasswordChangedAt, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// RecordLoginFailure increments the failure counter in a single statement and
// locks the account once the new count reaches threshold. Concurrent failures
// serialise on the row lock, so no increment is lost.
func (r *AdminsRepository) RecordLoginFailure(ctx context.Context, id uuid.UUID, at time.Time, threshold int, lockFor time.Duration) (*domain.LoginFailure, error) {
	query := `
		UPDATE admins
		SET failed_login_attempts = failed_login_attempts + 1,
		    last_failed_login = $2,
		    account_locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $3 THEN $4
		        ELSE account_locked_until
		    END,
		    updated_at = $2
		WHERE id = $1
		RETURNING failed_login_attempts, last_failed_login, account_locked_until
	`
	failure := &domain.LoginFailure{}
	err := r.db.QueryRowContext(ctx, query, id, at, threshold, at.Add(lockFor)).Scan(
		&failure.FailedLoginAttempts, &failure.LastFailedLogin, &failure.AccountLockedUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return failure, nil
}

// RecordLoginSuccess clears the failure state and stamps the login time.
func (r *AdminsRepository) RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE admins
		SET failed_login_attempts = 0,
		    last_failed_login = NULL,
		    account_locked_until = NULL,
		    last_login = $2,
		    updated_at = $2
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, at)
}

// UpdatePassword stores a new hash and sets the force-change flag.
func (r *AdminsRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time, forceChange bool) error {
	query := `
		UPDATE admins
		SET password_hash = $2,
		    password_changed_at = $3,
		    force_password_change = $4,
		    updated_at = $3
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, passwordHash, changedAt, forceChange)
}

// ResetLoginFailures clears the counter and lock for an account by username.
func (r *AdminsRepository) ResetLoginFailures(ctx context.Context, username string) error {
	query := `
		UPDATE admins
		SET failed_login_attempts = 0,
		    last_failed_login = NULL,
		    account_locked_until = NULL,
		    updated_at = NOW()
		WHERE username = $1
	`
	return r.execOne(ctx, query, username)
}

// ResetPassword replaces the hash and clears any lock in one transaction.
func (r *AdminsRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time, forceChange bool) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx, `SELECT username FROM admins WHERE id = $1 FOR UPDATE`, id).Scan(&username)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAdminNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE admins
			SET password_hash = $2,
			    password_changed_at = $3,
			    force_password_change = $4,
			    failed_login_attempts = 0,
			    last_failed_login = NULL,
			    account_locked_until = NULL,
			    updated_at = $3
			WHERE id = $1
		`, id, passwordHash, changedAt, forceChange)
		return err
	})
}

func (r *AdminsRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
