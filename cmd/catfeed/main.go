package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/tendant/catfeed/catfeed"
	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/internal/storage"
	"github.com/tendant/catfeed/pkg/logbook"
	"github.com/tendant/catfeed/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid APP_TIMEZONE", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Driver:   cfg.DBDriver,
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database", "driver", cfg.DBDriver)

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Photo storage is optional; photo endpoints answer 503 without it
	var blobs logbook.BlobStore
	if cfg.HasS3() {
		store, err := storage.NewS3Store(context.Background(), cfg.S3)
		if err != nil {
			logger.Error("failed to configure photo storage", "error", err)
			os.Exit(1)
		}
		blobs = store
		logger.Info("photo storage enabled", "bucket", cfg.S3.Bucket)
	}

	app, err := catfeed.New(catfeed.Config{
		DB:              db,
		JWTSecret:       cfg.JWTSecret,
		JWTIssuer:       cfg.JWTIssuer,
		SessionTTL:      cfg.SessionTTL,
		Lockout:         cfg.Lockout,
		PasswordPolicy:  &cfg.PasswordPolicy,
		Location:        location,
		Blobs:           blobs,
		Language:        cfg.DefaultLanguage,
		ServeUI:         cfg.ServeUI,
		CookieSecure:    cfg.CookieSecure,
		RateLimit:       cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "timezone", location.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
