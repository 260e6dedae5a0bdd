package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/principal"
)

// RequireArea admits only principals that pass the named area's
// admission rule. It expects AuthMiddleware to have stored the
// Principal in the request context already.
func RequireArea(resolver *authz.Resolver, areaName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principal.FromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			area, ok := resolver.Area(areaName)
			if !ok {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			if !resolver.Admit(area, p) {
				slog.Warn("access denied: principal not admitted to area",
					"user_id", p.ID,
					"area", areaName)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
