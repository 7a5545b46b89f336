package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	Port        string
	FrontendURL string
	DataDir     string

	// Record store: "json" (files under DataDir), "sqlite" or "pgx"
	StoreDriver  string
	DBConnection string

	// Admin API (optional; admin routes are open when unset)
	AdminJWTSecret   string
	AdminTokenExpiry time.Duration

	// Email
	EmailFrom        string
	ResendAPIKey     string
	ResendAudienceID string

	// Payment
	PaymentProvider string // "stripe" or "polar"
	// Payment - Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	// Payment - Polar
	PolarAPIKey        string
	PolarWebhookSecret string
	PolarSandboxMode   bool

	// Observability (optional)
	SentryDSN string

	// Reference image storage. Local disk under UploadDir unless S3Bucket is set.
	UploadDir              string
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string        // Optional: for S3-compatible services (MinIO, R2, etc.)
	S3PresignExpiryPrivate time.Duration // Expiry for reference image URLs - default: 1 hour
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	dataDir := envString("DATA_DIR", "data")

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Sora Formula"),
		AppEnv:      envString("APP_ENV", "development"),
		Port:        envString("PORT", "3001"),
		FrontendURL: strings.TrimSuffix(envString("FRONTEND_URL", "http://localhost:3000"), "/"),
		DataDir:     dataDir,

		// Record store
		StoreDriver:  envString("STORE_DRIVER", "json"),
		DBConnection: envString("DB_CONNECTION", filepath.Join(dataDir, "records.db")+"?_pragma=journal_mode(WAL)"),

		// Admin
		AdminJWTSecret:   envString("ADMIN_JWT_SECRET", ""),
		AdminTokenExpiry: envDuration("ADMIN_TOKEN_EXPIRY", 24*time.Hour),

		// Email (RESEND_API_KEY optional in development)
		EmailFrom:        envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:     envString("RESEND_API_KEY", ""),
		ResendAudienceID: envString("RESEND_AUDIENCE_ID", ""),

		// Payment
		PaymentProvider:     envString("PAYMENT_PROVIDER", "stripe"),
		StripeSecretKey:     envString("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),
		PolarAPIKey:         envString("POLAR_API_KEY", ""),
		PolarWebhookSecret:  envString("POLAR_WEBHOOK_SECRET", ""),
		PolarSandboxMode:    envBool("POLAR_SANDBOX_MODE", envString("APP_ENV", "development") == "development"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		UploadDir:              envString("UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		S3Region:               envString("S3_REGION", "us-east-1"),
		S3Bucket:               envString("S3_BUCKET", ""),
		S3AccessKey:            envString("S3_ACCESS_KEY", ""),
		S3SecretKey:            envString("S3_SECRET_KEY", ""),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows some services (like email) to use fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.AdminJWTSecret == "" {
		slog.Error("production deployment requires ADMIN_JWT_SECRET",
			"hint", "admin analytics would otherwise be public")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesS3 reports whether reference images go to S3-compatible storage
func (c *Config) UsesS3() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:         c.AppName,
		AppEnv:          c.AppEnv,
		Port:            c.Port,
		FrontendURL:     c.FrontendURL,
		StoreDriver:     c.StoreDriver,
		PaymentProvider: c.PaymentProvider,
		EmailFrom:       c.EmailFrom,
	}
}
