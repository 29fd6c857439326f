package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/internal/http/features/cat"
	"github.com/tendant/catfeed/internal/http/features/feeding"
	"github.com/tendant/catfeed/internal/http/features/pages"
	"github.com/tendant/catfeed/internal/http/features/password"
	"github.com/tendant/catfeed/internal/http/features/photos"
	"github.com/tendant/catfeed/internal/http/features/session"
	"github.com/tendant/catfeed/internal/http/middleware"
	"github.com/tendant/catfeed/internal/httputil"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/logbook"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Translator      *i18n.Translator
	Verifier        *auth.Verifier
	SessionService  *auth.SessionService
	AccountService  *auth.AccountService
	FeedingService  *logbook.FeedingService
	CatService      *logbook.CatService
	PhotoService    *logbook.PhotoService // nil when object storage is not configured
	ServeUI         bool
	CookieSecure    bool
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.Default()
	}
	tr := cfg.Translator

	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limiters := middleware.NewLimiters(cfg.RateLimitConfig, tr, cfg.Logger)
	requireSession := middleware.Auth(cfg.SessionService, tr)
	optionalSession := middleware.OptionalAuth(cfg.SessionService)
	requireChanged := middleware.RequirePasswordChanged(tr)
	bodyLimit := middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize)

	sessionHandler := session.NewHandler(cfg.Logger, cfg.Verifier, cfg.SessionService, tr, cfg.CookieSecure)
	passwordHandler := password.NewHandler(cfg.Logger, cfg.AccountService, cfg.SessionService, tr, cfg.CookieSecure)
	feedingHandler := feeding.NewHandler(cfg.Logger, cfg.FeedingService, tr)
	catHandler := cat.NewHandler(cfg.Logger, cfg.CatService, tr)

	var photoService photos.Service
	if cfg.PhotoService != nil {
		photoService = cfg.PhotoService
	}
	photosHandler := photos.NewHandler(cfg.Logger, photoService, tr)

	// Login, logout and password changes
	r.Group(func(r chi.Router) {
		r.Use(limiters.Auth)
		r.Use(bodyLimit)
		r.Post("/v1/auth/login", sessionHandler.Login)
		r.Post("/v1/auth/logout", sessionHandler.Logout)
		r.Get("/v1/auth/password/requirements", passwordHandler.Requirements)
		r.With(requireSession).Post("/v1/auth/password", passwordHandler.ChangePassword)
	})

	// Session lookup stays reachable while a password change is pending.
	r.With(limiters.API, requireSession).Get("/v1/auth/session", sessionHandler.Session)

	// Feeding log
	r.Route("/v1/feedings", func(r chi.Router) {
		r.Use(limiters.API)
		r.Use(bodyLimit)
		r.Use(requireSession)
		r.Use(requireChanged)
		r.Get("/", feedingHandler.List)
		r.Post("/", feedingHandler.Create)
		r.Get("/today", feedingHandler.Today)
		r.Get("/export", feedingHandler.Export)
		r.Get("/stats", feedingHandler.Stats)
		r.Put("/{id}", feedingHandler.Update)
		r.Delete("/{id}", feedingHandler.Delete)
	})

	// Cat profile
	r.Group(func(r chi.Router) {
		r.Use(limiters.API)
		r.Use(bodyLimit)
		r.Get("/v1/cat", catHandler.Get)
		r.Get("/v1/cat/calories", catHandler.Calories)
		r.With(requireSession, requireChanged).Put("/v1/cat", catHandler.Put)
	})

	// Photo gallery
	r.Group(func(r chi.Router) {
		r.Use(limiters.API)
		r.Use(optionalSession)
		r.Get("/v1/photos", photosHandler.List)
		r.Get("/v1/photos/{id}/view", photosHandler.View)
	})
	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Use(requireChanged)
		r.With(limiters.Upload, middleware.RequestSizeLimit(uploadBodyLimit(cfg.Validation))).
			Post("/v1/photos", photosHandler.Upload)
		r.With(limiters.API, bodyLimit).Post("/v1/photos/{id}/approve", photosHandler.Approve)
		r.With(limiters.API, bodyLimit).Delete("/v1/photos/{id}", photosHandler.Delete)
	})

	// Authentication pages (if UI is enabled)
	if cfg.ServeUI {
		pagesHandler, err := pages.NewHandler()
		if err != nil {
			cfg.Logger.Error("failed to load page templates", "error", err)
		} else {
			r.Get("/auth/login", pagesHandler.Login)
			r.With(optionalSession).Get("/auth/change-password", pagesHandler.ChangePassword)
		}
	}

	return r
}

// multipart framing and form fields ride on top of the file itself.
const multipartOverhead = 1 << 20

func uploadBodyLimit(v config.ValidationConfig) int64 {
	if v.MaxUploadSize <= 0 {
		return 0
	}
	return v.MaxUploadSize + multipartOverhead
}
