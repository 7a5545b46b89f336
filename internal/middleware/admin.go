package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/soraformula/soraformula/internal/ctxkeys"
	"github.com/soraformula/soraformula/internal/service"
)

// RequireAdmin checks the bearer token on admin routes. When admin auth is
// not configured every request passes.
func RequireAdmin(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			subject, err := authService.ValidateAdminToken(strings.TrimSpace(token))
			if err != nil {
				slog.Warn("admin token rejected", "error", err, "path", r.URL.Path)
				unauthorized(w)
				return
			}

			next(w, r.WithContext(ctxkeys.WithAdmin(r.Context(), subject)))
		}
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}
