// Package password serves the change-password endpoint.
package password

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/internal/http/features/session"
	"github.com/tendant/catfeed/internal/http/middleware"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
)

// AccountService changes an admin's password.
type AccountService interface {
	ChangePassword(ctx context.Context, id uuid.UUID, current, next, confirm string) (*domain.Identity, error)
	Policy() *auth.PasswordPolicy
}

// Handler handles password endpoints.
type Handler struct {
	logger       *slog.Logger
	accounts     AccountService
	sessions     session.SessionIssuer
	translator   *i18n.Translator
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new password handler.
func NewHandler(
	logger *slog.Logger,
	accounts AccountService,
	sessions session.SessionIssuer,
	translator *i18n.Translator,
	cookieSecure bool,
) *Handler {
	cookieConfig := httputil.DefaultCookieConfig()
	cookieConfig.Secure = cookieSecure
	return &Handler{
		logger:       logger,
		accounts:     accounts,
		sessions:     sessions,
		translator:   translator,
		cookieConfig: cookieConfig,
	}
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ErrorResponse adds the policy text to weak-password errors.
type ErrorResponse struct {
	Error        string `json:"error"`
	Requirements string `json:"requirements,omitempty"`
}

// ChangePassword verifies the current password, stores the new one and
// reissues the session without the force-password-change flag.
// POST /v1/auth/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	lang := r.Header.Get("Accept-Language")

	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, h.translator.Message(lang, i18n.AuthRequired))
		return
	}

	var req ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRequest))
		return
	}

	identity, err := h.accounts.ChangePassword(r.Context(), adminID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRequest))
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidCredentials))
		case errors.Is(err, domain.ErrPasswordMismatch):
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.PasswordMismatch))
		case errors.Is(err, domain.ErrWeakPassword):
			httputil.JSON(w, http.StatusBadRequest, ErrorResponse{
				Error:        h.translator.Message(lang, i18n.WeakPassword),
				Requirements: h.accounts.Policy().Requirements(),
			})
		case errors.Is(err, domain.ErrAdminNotFound):
			httputil.Error(w, http.StatusUnauthorized, h.translator.Message(lang, i18n.AuthRequired))
		default:
			h.logger.ErrorContext(r.Context(), "password change failed", "error", err, "admin_id", adminID)
			httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
		}
		return
	}

	issued, err := h.sessions.Issue(identity)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to reissue session", "error", err, "admin_id", adminID)
		httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
		return
	}
	session.WriteSession(w, r, identity, issued, h.sessions.TTL(), h.cookieConfig)
}

// Requirements returns the password policy for the change-password page.
// GET /v1/auth/password/requirements
func (h *Handler) Requirements(w http.ResponseWriter, r *http.Request) {
	policy := h.accounts.Policy()
	httputil.JSON(w, http.StatusOK, map[string]any{
		"min_length":   policy.MinLength,
		"requirements": policy.Requirements(),
	})
}
