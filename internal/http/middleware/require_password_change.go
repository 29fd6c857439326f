package middleware

import (
	"net/http"

	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
)

// RequirePasswordChanged blocks sessions that still carry the
// force-password-change flag. Must be used after Auth middleware.
func RequirePasswordChanged(tr *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.Header.Get("Accept-Language")
			claims, ok := GetClaims(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, tr.Message(lang, i18n.AuthRequired))
				return
			}
			if claims.ForcePasswordChange {
				httputil.Error(w, http.StatusForbidden, tr.Message(lang, i18n.PasswordChangeRequired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
