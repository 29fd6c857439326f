package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
)

// Limiters holds one throttle per route group. Each group counts requests
// per client IP independently of the others.
type Limiters struct {
	Auth   func(http.Handler) http.Handler
	API    func(http.Handler) http.Handler
	Upload func(http.Handler) http.Handler
}

// ThrottleConfig describes a single throttle.
type ThrottleConfig struct {
	Group      string
	Requests   int
	Window     time.Duration
	Translator *i18n.Translator
	Logger     *slog.Logger
}

// Throttle limits requests per client IP. A zero request count or window disables it.
func Throttle(cfg ThrottleConfig) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return passthrough
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return httputil.ClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			cfg.Logger.WarnContext(r.Context(), "request throttled",
				"group", cfg.Group,
				"ip", httputil.ClientIP(r),
				"method", r.Method,
				"path", r.URL.Path,
			)
			msg := cfg.Translator.Message(r.Header.Get("Accept-Language"), i18n.TooManyRequests)
			httputil.Error(w, http.StatusTooManyRequests, msg)
		}),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// NewLimiters builds the auth, api and upload throttles from config.
// Every group is a passthrough when rate limiting is disabled.
func NewLimiters(cfg config.RateLimitConfig, tr *i18n.Translator, logger *slog.Logger) Limiters {
	if !cfg.Enabled {
		return Limiters{Auth: passthrough, API: passthrough, Upload: passthrough}
	}

	return Limiters{
		Auth: Throttle(ThrottleConfig{
			Group:      "auth",
			Requests:   cfg.AuthRequestsPerMinute,
			Window:     time.Duration(cfg.AuthWindowMinutes) * time.Minute,
			Translator: tr,
			Logger:     logger,
		}),
		API: Throttle(ThrottleConfig{
			Group:      "api",
			Requests:   cfg.APIRequestsPerMinute,
			Window:     time.Duration(cfg.APIWindowMinutes) * time.Minute,
			Translator: tr,
			Logger:     logger,
		}),
		Upload: Throttle(ThrottleConfig{
			Group:      "upload",
			Requests:   cfg.UploadRequestsPerWindow,
			Window:     time.Duration(cfg.UploadWindowMinutes) * time.Minute,
			Translator: tr,
			Logger:     logger,
		}),
	}
}
