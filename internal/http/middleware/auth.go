package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/auth"
)

type contextKey string

const (
	// AdminIDKey is the context key for the authenticated admin ID.
	AdminIDKey contextKey = "admin_id"
	// ClaimsKey is the context key for the session claims.
	ClaimsKey contextKey = "claims"
)

// TokenValidator validates session tokens.
type TokenValidator interface {
	Validate(token string) (*auth.SessionClaims, error)
}

// Auth creates middleware that requires a valid session token.
// Checks Authorization header first, then falls back to cookie for web clients.
func Auth(sessions TokenValidator, tr *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok := authenticate(r, sessions)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, tr.Message(r.Header.Get("Accept-Language"), i18n.AuthRequired))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the session when a valid token is present and lets
// anonymous requests through unchanged.
func OptionalAuth(sessions TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctx, ok := authenticate(r, sessions); ok {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, sessions TokenValidator) (context.Context, bool) {
	token := bearerToken(r)
	if token == "" {
		token, _ = httputil.GetSessionTokenFromCookie(r)
	}
	if token == "" {
		return nil, false
	}

	claims, err := sessions.Validate(token)
	if err != nil {
		return nil, false
	}
	adminID, err := claims.AdminID()
	if err != nil {
		return nil, false
	}

	ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx, true
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetAdminID extracts the admin ID from the request context.
func GetAdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AdminIDKey).(uuid.UUID)
	return id, ok
}

// GetClaims extracts the session claims from the request context.
func GetClaims(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.SessionClaims)
	return claims, ok
}
