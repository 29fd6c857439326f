package domain

import "errors"

// Authentication errors
var (
	ErrInvalidInput       = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// Validation errors
var (
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
)

// Logbook errors
var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrProfileNotFound     = errors.New("cat profile not found")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidProfile      = errors.New("invalid cat profile")
)
