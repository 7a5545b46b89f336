package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_DIR", "/tmp/formula")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.FrontendURL != "https://app.example.com" {
		t.Errorf("FrontendURL = %q, trailing slash not trimmed", cfg.FrontendURL)
	}
	if cfg.StoreDriver != "json" {
		t.Errorf("StoreDriver = %q, want json", cfg.StoreDriver)
	}
	if cfg.UploadDir != "/tmp/formula/uploads" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if cfg.PaymentProvider != "stripe" {
		t.Errorf("PaymentProvider = %q, want stripe", cfg.PaymentProvider)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development environment")
	}
	if cfg.UsesS3() {
		t.Error("UsesS3 without bucket")
	}
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")

	if got := envBool("TEST_BOOL", true); !got {
		t.Error("envBool invalid value should return default")
	}
	if got := envDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("envDuration = %v, want default", got)
	}

	t.Setenv("TEST_DURATION", "90s")
	if got := envDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("envDuration = %v, want 90s", got)
	}
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:             "x",
		StripeSecretKey:     "sk_test",
		StripeWebhookSecret: "whsec",
		AdminJWTSecret:      "secret",
		ResendAPIKey:        "re_",
	}
	s := cfg.Sanitized()
	if s.StripeSecretKey != "" || s.StripeWebhookSecret != "" || s.AdminJWTSecret != "" || s.ResendAPIKey != "" {
		t.Errorf("Sanitized leaked a secret: %+v", s)
	}
	if s.AppName != "x" {
		t.Errorf("AppName = %q", s.AppName)
	}
}
