package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/api/http/handlers"
	"github.com/spec-kit/tournament-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Tournaments *handlers.TournamentsHandler
	Competitors *handlers.CompetitorsHandler
	AdminUsers  *handlers.AdminUsersHandler
	Audit       *handlers.AuditHandler
	Resolver    *auth.Resolver
}

// RegisterRoutes wires HTTP routes. The resolver runs on every route and
// attaches a principal when a valid credential is present; per-route guards
// decide whether one is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Resolver.Handle)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/oauth/:provider/callback", cfg.Auth.OAuthCallback)

	tournaments := app.Group("/tournaments")
	tournaments.Get("/", cfg.Tournaments.List)
	tournaments.Post("/", auth.RequireAdminRole(), cfg.Tournaments.Create)
	tournaments.Get("/deleted", auth.RequireAdminRole(), cfg.Tournaments.ListDeleted)
	tournaments.Get("/:id", cfg.Tournaments.Get)
	tournaments.Put("/:id", auth.RequireAdminRole(), cfg.Tournaments.Update)
	tournaments.Delete("/:id", auth.RequireAdminRole(), cfg.Tournaments.Delete)
	tournaments.Post("/:id/restore", auth.RequireAdminRole(), cfg.Tournaments.Restore)

	tournaments.Get("/:id/competitors", cfg.Competitors.List)
	tournaments.Put("/:id/competitors/:competitorId", auth.RequireAdminRole(), cfg.Competitors.Update)
	tournaments.Delete("/:id/competitors/:competitorId", auth.RequireAdminRole(), cfg.Competitors.Delete)
	tournaments.Put("/:id/competitors/:competitorId/approve", auth.RequireAdminRole(), cfg.Competitors.Approve)
	tournaments.Put("/:id/competitors/:competitorId/reject", auth.RequireAdminRole(), cfg.Competitors.Reject)

	// Public self-registration; the service enforces the window.
	app.Post("/competitors", cfg.Competitors.Create)

	admin := app.Group("/admin", auth.RequireAdminRole())
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Get("/users/:id", cfg.AdminUsers.Get)
	admin.Put("/users/:id/status", cfg.AdminUsers.UpdateStatus)
	admin.Put("/users/:id/approve", cfg.AdminUsers.Approve)
	admin.Put("/users/:id/reject", cfg.AdminUsers.Reject)
	admin.Get("/audit-logs", cfg.Audit.List)
	admin.Get("/audit-logs/activity/:userId", cfg.Audit.UserActivity)
}
