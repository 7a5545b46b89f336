package ctxkeys

import (
	"context"

	"github.com/soraformula/soraformula/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	ConfigKey contextKey = "config"
	AdminKey  contextKey = "admin"
)

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

// Admin returns the subject of the verified admin token, if any
func Admin(ctx context.Context) string {
	subject, _ := ctx.Value(AdminKey).(string)
	return subject
}

func WithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, AdminKey, subject)
}
