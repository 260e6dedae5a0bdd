package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/business-management/internal/auth"
	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/dashboard"
	"github.com/frahmantamala/business-management/internal/role"
	"github.com/frahmantamala/business-management/internal/transport/middleware"
	"github.com/frahmantamala/business-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, roleHandler *role.Handler, dashboardHandler *dashboard.Handler, resolver *authz.Resolver, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				pr.Get("/users/me", authHandler.Me)

				// Dashboard view resolution
				if dashboardHandler != nil {
					pr.Get("/dashboard/view", dashboardHandler.ResolveView)
				}

				// Role administration, gated on the roles area
				if roleHandler != nil {
					pr.Route("/roles", func(rr chi.Router) {
						rr.Use(middleware.RequireArea(resolver, authz.AreaRoles))

						rr.Get("/", roleHandler.ListRoles)         // GET /roles
						rr.Get("/tree", roleHandler.GetTree)       // GET /roles/tree
						rr.Post("/", roleHandler.CreateRole)       // POST /roles
						rr.Put("/{id}/permissions", roleHandler.UpdatePermissions)
						rr.Patch("/{id}/parent", roleHandler.ReassignParent)
						rr.Delete("/{id}", roleHandler.DeleteRole)
					})
				}
			})
		}
	})
}
