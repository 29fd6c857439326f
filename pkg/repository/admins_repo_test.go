package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/catfeed/pkg/domain"
)

var adminRowColumns = []string{
	"id", "username", "password_hash", "failed_login_attempts", "last_failed_login",
	"account_locked_until", "force_password_change", "last_login", "password_changed_at",
	"created_at", "updated_at",
}

func TestAdminsRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	now := time.Now()
	admin := &domain.Admin{ID: uuid.New(), Username: "alice", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO admins`).
		WithArgs(admin.ID, "alice", "h", false, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mock.ExpectExec(`INSERT INTO admins`).WillReturnError(&pq.Error{Code: "23505"})
	if err := repo.Create(context.Background(), admin); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("Create duplicate error = %v, want %v", err, domain.ErrUsernameTaken)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminsRepository_GetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lockedUntil := now.Add(30 * time.Minute)

	rows := sqlmock.NewRows(adminRowColumns).
		AddRow(id.String(), "alice", "hash", 5, now, lockedUntil, true, nil, nil, now, now)
	mock.ExpectQuery(`FROM admins\s+WHERE username = \$1`).WithArgs("alice").WillReturnRows(rows)

	admin, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if admin.ID != id || admin.Username != "alice" || admin.FailedLoginAttempts != 5 {
		t.Errorf("unexpected admin: %+v", admin)
	}
	if admin.AccountLockedUntil == nil || !admin.AccountLockedUntil.Equal(lockedUntil) {
		t.Errorf("AccountLockedUntil = %v, want %v", admin.AccountLockedUntil, lockedUntil)
	}
	if admin.LastLogin != nil {
		t.Errorf("LastLogin = %v, want nil", admin.LastLogin)
	}
	if !admin.ForcePasswordChange {
		t.Error("ForcePasswordChange should be true")
	}
}

func TestAdminsRepository_GetByUsername_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)

	mock.ExpectQuery(`FROM admins`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrAdminNotFound)
	}

	mock.ExpectQuery(`FROM admins\s+WHERE id = \$1`).WillReturnError(errors.New("db down"))
	if _, err := repo.GetByID(context.Background(), uuid.New()); err == nil || errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("GetByID should surface driver errors, got %v", err)
	}
}

func TestAdminsRepository_RecordLoginFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	id := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	until := at.Add(30 * time.Minute)

	mock.ExpectQuery(`(?s)SET failed_login_attempts = failed_login_attempts \+ 1.*RETURNING failed_login_attempts`).
		WithArgs(id, at, 5, until).
		WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "last_failed_login", "account_locked_until"}).
			AddRow(5, at, until))

	failure, err := repo.RecordLoginFailure(context.Background(), id, at, 5, 30*time.Minute)
	if err != nil {
		t.Fatalf("RecordLoginFailure error: %v", err)
	}
	if failure.FailedLoginAttempts != 5 || !failure.Locked() {
		t.Errorf("unexpected failure: %+v", failure)
	}

	mock.ExpectQuery(`UPDATE admins`).
		WithArgs(id, at, 5, until).
		WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "last_failed_login", "account_locked_until"}).
			AddRow(2, at, nil))

	failure, err = repo.RecordLoginFailure(context.Background(), id, at, 5, 30*time.Minute)
	if err != nil {
		t.Fatalf("RecordLoginFailure error: %v", err)
	}
	if failure.FailedLoginAttempts != 2 || failure.Locked() {
		t.Errorf("unexpected failure: %+v", failure)
	}

	mock.ExpectQuery(`UPDATE admins`).WillReturnError(sql.ErrNoRows)
	if _, err := repo.RecordLoginFailure(context.Background(), id, at, 5, 30*time.Minute); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrAdminNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminsRepository_RecordLoginSuccess(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec(`SET failed_login_attempts = 0,\s+last_failed_login = NULL,\s+account_locked_until = NULL,\s+last_login = \$2`).
		WithArgs(id, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.RecordLoginSuccess(context.Background(), id, at); err != nil {
		t.Fatalf("RecordLoginSuccess error: %v", err)
	}

	mock.ExpectExec(`UPDATE admins`).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.RecordLoginSuccess(context.Background(), id, at); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrAdminNotFound)
	}
}

func TestAdminsRepository_UpdatePasswordAndReset(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec(`SET password_hash = \$2`).
		WithArgs(id, "new-hash", at, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdatePassword(context.Background(), id, "new-hash", at, false); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}

	mock.ExpectExec(`WHERE username = \$1`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.ResetLoginFailures(context.Background(), "alice"); err != nil {
		t.Fatalf("ResetLoginFailures error: %v", err)
	}

	mock.ExpectExec(`WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.ResetLoginFailures(context.Background(), "ghost"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrAdminNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdminsRepository_ResetPassword(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminsRepository(db)
	id := uuid.New()
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectExec(`failed_login_attempts = 0`).
		WithArgs(id, "new-hash", at, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	if err := repo.ResetPassword(context.Background(), id, "new-hash", at, true); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"username"}))
	mock.ExpectRollback()
	if err := repo.ResetPassword(context.Background(), id, "new-hash", at, true); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrAdminNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
