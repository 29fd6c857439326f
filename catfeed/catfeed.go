// Package catfeed wires the feeding log service together.
//
// Setup:
//
//  1. Apply the embedded migrations (repository.Migrate) or run with DB_AUTO_MIGRATE
//  2. Provision an admin with catfeedctl create-admin
//  3. Create the app and serve its handler
//
// Basic usage:
//
//	db, _ := repository.NewDB(repository.Config{URL: "postgres://localhost/catfeed?sslmode=disable"})
//
//	app, err := catfeed.New(catfeed.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	http.ListenAndServe(":8080", app.Handler())
package catfeed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tendant/catfeed/internal/config"
	httpserver "github.com/tendant/catfeed/internal/http"
	"github.com/tendant/catfeed/internal/i18n"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/logbook"
	"github.com/tendant/catfeed/pkg/repository"
)

// Config holds the configuration for the app.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret is the secret key for signing session tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in session tokens (default: "catfeed").
	JWTIssuer string

	// SessionTTL is the lifetime of a session (default: 12 hours).
	SessionTTL time.Duration

	// Lockout controls account lockout (default: 5 failures, 30 minutes).
	Lockout config.LockoutConfig

	// PasswordPolicy applies to provisioning and password changes (default: min length 8).
	PasswordPolicy *config.PasswordPolicyConfig

	// Location splits feeding records into days (default: time.Local).
	Location *time.Location

	// Blobs stores photo bytes. Photo endpoints answer 503 without it.
	Blobs logbook.BlobStore

	// Language is the fallback for Accept-Language (default: "zh-TW").
	Language string

	// HTTP tunables; zero values disable the corresponding middleware.
	ServeUI         bool
	CookieSecure    bool
	RateLimit       config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig

	// Logger is the structured logger (default: JSON on stdout).
	Logger *slog.Logger
}

// App is the assembled service.
type App struct {
	config   Config
	admins   *repository.AdminsRepository
	verifier *auth.Verifier
	sessions *auth.SessionService
	accounts *auth.AccountService
	feedings *logbook.FeedingService
	cats     *logbook.CatService
	photos   *logbook.PhotoService
	handler  http.Handler
}

// New creates the app. Returns an error if required tables don't exist.
func New(cfg Config) (*App, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateSchema(context.Background(), cfg.DB); err != nil {
		return nil, err
	}

	// Initialize repositories
	adminsRepo := repository.NewAdminsRepository(cfg.DB)
	feedingRepo := repository.NewFeedingRepository(cfg.DB)
	catsRepo := repository.NewCatsRepository(cfg.DB)
	photosRepo := repository.NewPhotosRepository(cfg.DB)

	// Initialize services
	translator, err := i18n.New(cfg.Language)
	if err != nil {
		return nil, err
	}
	verifier := auth.NewVerifier(adminsRepo, auth.VerifierConfig{
		Policy: auth.NewLockoutPolicy(cfg.Lockout),
		Logger: cfg.Logger,
	})
	sessions := auth.NewSessionService(auth.SessionConfig{
		TTL:       cfg.SessionTTL,
		JWTSecret: []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
	})
	accounts := auth.NewAccountService(adminsRepo, auth.NewPasswordPolicy(*cfg.PasswordPolicy), cfg.Logger)
	feedings := logbook.NewFeedingService(feedingRepo, cfg.Logger,
		logbook.WithLocation(cfg.Location),
		logbook.WithMaxNotesLength(cfg.Validation.MaxNotesLength),
	)
	cats := logbook.NewCatService(catsRepo, cfg.Logger)

	var photos *logbook.PhotoService
	if cfg.Blobs != nil {
		photos = logbook.NewPhotoService(photosRepo, cfg.Blobs, cfg.Validation.MaxUploadSize, cfg.Logger)
	}

	app := &App{
		config:   cfg,
		admins:   adminsRepo,
		verifier: verifier,
		sessions: sessions,
		accounts: accounts,
		feedings: feedings,
		cats:     cats,
		photos:   photos,
	}
	app.handler = httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          cfg.Logger,
		Translator:      translator,
		Verifier:        verifier,
		SessionService:  sessions,
		AccountService:  accounts,
		FeedingService:  feedings,
		CatService:      cats,
		PhotoService:    photos,
		ServeUI:         cfg.ServeUI,
		CookieSecure:    cfg.CookieSecure,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})
	return app, nil
}

// Handler returns the HTTP handler with every route mounted.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Verifier returns the credential verifier for advanced usage.
func (a *App) Verifier() *auth.Verifier {
	return a.verifier
}

// Accounts returns the account maintenance service used by catfeedctl.
func (a *App) Accounts() *auth.AccountService {
	return a.accounts
}

// SessionService returns the session service for advanced usage.
func (a *App) SessionService() *auth.SessionService {
	return a.sessions
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("catfeed: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("catfeed: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("catfeed: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = auth.DefaultIssuer
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = auth.DefaultSessionTTL
	}
	if cfg.PasswordPolicy == nil {
		cfg.PasswordPolicy = &config.PasswordPolicyConfig{MinLength: auth.DefaultMinPasswordLength}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Language == "" {
		cfg.Language = "zh-TW"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}

// RequiredTables are created by the embedded migrations.
var RequiredTables = []string{"admins", "feeding_records", "cat_profiles", "photos"}

// validateSchema checks that required database tables exist.
func validateSchema(ctx context.Context, db *sql.DB) error {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	`

	for _, table := range RequiredTables {
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("catfeed: missing table '%s' - run migrations first", table)
		}
		if err != nil {
			return fmt.Errorf("catfeed: failed to check schema: %w", err)
		}
	}

	return nil
}
