package middleware

import (
	"net/http"

	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/ctxkeys"
)

// Config puts the sanitized app configuration in the request context
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
