package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr   string
	ServerPort   int
	ServeUI      bool
	CookieSecure bool

	// Database
	DBDriver      string
	DatabaseURL   string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	// Session
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// DefaultLanguage is used when Accept-Language matches nothing we ship.
	DefaultLanguage string
	// Timezone splits feeding records into calendar days.
	Timezone string

	Lockout         LockoutConfig
	PasswordPolicy  PasswordPolicyConfig
	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig
	Validation      ValidationConfig
	S3              S3Config
}

// LockoutConfig controls when repeated login failures lock an account.
type LockoutConfig struct {
	Threshold int
	Duration  time.Duration
}

// PasswordPolicyConfig holds password complexity requirements.
type PasswordPolicyConfig struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// RateLimitConfig holds per-IP request throttling settings.
type RateLimitConfig struct {
	Enabled                 bool
	AuthRequestsPerMinute   int
	AuthWindowMinutes       int
	APIRequestsPerMinute    int
	APIWindowMinutes        int
	UploadRequestsPerWindow int
	UploadWindowMinutes     int
}

// SecurityHeadersConfig holds the response headers applied to every request.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// ValidationConfig holds input size limits.
type ValidationConfig struct {
	MaxRequestBodySize int64
	MaxUploadSize      int64
	MaxNotesLength     int
}

// S3Config holds object storage settings for the photo gallery.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignTTL      time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr:   getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort:   getEnvInt("SERVER_PORT", 8080),
		ServeUI:      getEnvBool("SERVE_UI", true),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		// Database defaults (matches docker compose postgres)
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnvInt("DB_PORT", 5432),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "catfeed"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "catfeed"),
		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "zh-TW"),
		Timezone:        getEnv("APP_TIMEZONE", "Asia/Taipei"),

		Lockout: LockoutConfig{
			Threshold: getEnvInt("LOCKOUT_THRESHOLD", 5),
			Duration:  getEnvDuration("LOCKOUT_DURATION", 30*time.Minute),
		},

		PasswordPolicy: PasswordPolicyConfig{
			MinLength:        getEnvInt("PASSWORD_MIN_LENGTH", 8),
			RequireUppercase: getEnvBool("PASSWORD_REQUIRE_UPPERCASE", false),
			RequireLowercase: getEnvBool("PASSWORD_REQUIRE_LOWERCASE", false),
			RequireNumber:    getEnvBool("PASSWORD_REQUIRE_NUMBER", false),
			RequireSpecial:   getEnvBool("PASSWORD_REQUIRE_SPECIAL", false),
		},

		RateLimit: RateLimitConfig{
			Enabled:                 getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequestsPerMinute:   getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindowMinutes:       getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 1),
			APIRequestsPerMinute:    getEnvInt("RATE_LIMIT_API_REQUESTS", 120),
			APIWindowMinutes:        getEnvInt("RATE_LIMIT_API_WINDOW_MINUTES", 1),
			UploadRequestsPerWindow: getEnvInt("RATE_LIMIT_UPLOAD_REQUESTS", 20),
			UploadWindowMinutes:     getEnvInt("RATE_LIMIT_UPLOAD_WINDOW_MINUTES", 10),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                getEnv("SECURITY_CSP", "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'"),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 0),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			XSSProtection:      getEnv("SECURITY_XSS_PROTECTION", "1; mode=block"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "strict-origin-when-cross-origin"),
			PermissionsPolicy:  getEnv("SECURITY_PERMISSIONS_POLICY", "geolocation=(), microphone=(), camera=()"),
		},

		Validation: ValidationConfig{
			MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 1<<20),
			MaxUploadSize:      getEnvInt64("MAX_UPLOAD_SIZE", 10<<20),
			MaxNotesLength:     getEnvInt("MAX_NOTES_LENGTH", 500),
		},

		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
			PresignTTL:      getEnvDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "pgx" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", cfg.DBDriver)
	}

	return cfg, nil
}

// HasS3 returns true if photo storage is configured.
func (c *Config) HasS3() bool {
	return c.S3.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
