// Package session serves login, logout and the current session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tendant/catfeed/internal/http/middleware"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/domain"
)

// CredentialVerifier checks a username and password.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*domain.Identity, error)
}

// SessionIssuer signs identities into session tokens.
type SessionIssuer interface {
	Issue(identity *domain.Identity) (*auth.IssuedSession, error)
	TTL() time.Duration
}

// Handler handles session endpoints.
type Handler struct {
	logger       *slog.Logger
	verifier     CredentialVerifier
	sessions     SessionIssuer
	translator   *i18n.Translator
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new session handler.
func NewHandler(
	logger *slog.Logger,
	verifier CredentialVerifier,
	sessions SessionIssuer,
	translator *i18n.Translator,
	cookieSecure bool,
) *Handler {
	cookieConfig := httputil.DefaultCookieConfig()
	cookieConfig.Secure = cookieSecure
	return &Handler{
		logger:       logger,
		verifier:     verifier,
		sessions:     sessions,
		translator:   translator,
		cookieConfig: cookieConfig,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by login and session lookups. Token fields are
// only filled for mobile clients.
type SessionResponse struct {
	domain.Session
	Token     string     `json:"token,omitempty"`
	TokenType string     `json:"token_type,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Login verifies credentials and starts a session.
// POST /v1/auth/login
//
// For web clients: Sets an HttpOnly cookie.
// For mobile clients (X-Client-Type: mobile): Returns the token in the response body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	lang := r.Header.Get("Accept-Language")

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.InvalidRequest))
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			httputil.Error(w, http.StatusBadRequest, h.translator.Message(lang, i18n.MissingCredentials))
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, h.translator.Message(lang, i18n.InvalidCredentials))
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Error(w, http.StatusLocked, h.translator.Message(lang, i18n.AccountLocked))
		default:
			h.logger.ErrorContext(r.Context(), "login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, h.translator.Message(lang, i18n.InternalError))
		}
		return
	}

	h.writeSession(w, r, identity)
}

// Logout clears the session cookie. Tokens held by mobile clients simply expire.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.ClearSessionCookie(w, h.cookieConfig)
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the caller's session.
// GET /v1/auth/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, h.translator.Message(r.Header.Get("Accept-Language"), i18n.AuthRequired))
		return
	}
	httputil.JSON(w, http.StatusOK, SessionResponse{Session: claims.Session()})
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, identity *domain.Identity) {
	issued, err := h.sessions.Issue(identity)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue session", "error", err, "admin_id", identity.ID)
		httputil.Error(w, http.StatusInternalServerError, h.translator.Message(r.Header.Get("Accept-Language"), i18n.InternalError))
		return
	}

	WriteSession(w, r, identity, issued, h.sessions.TTL(), h.cookieConfig)
}

// WriteSession delivers an issued session to the client: in the body for
// mobile clients, in the cookie otherwise.
func WriteSession(w http.ResponseWriter, r *http.Request, identity *domain.Identity, issued *auth.IssuedSession, ttl time.Duration, cookieConfig httputil.CookieConfig) {
	resp := SessionResponse{Session: identity.Session()}
	if httputil.IsMobileClient(r) {
		resp.Token = issued.Token
		resp.TokenType = "Bearer"
		resp.ExpiresAt = &issued.ExpiresAt
	} else {
		httputil.SetSessionCookie(w, issued.Token, ttl, cookieConfig)
	}
	httputil.JSON(w, http.StatusOK, resp)
}
