package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/case-service/internal/api/http/handlers"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Cases          *handlers.CasesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Registry       *prometheus.Registry
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	requireAuth := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}
	requireAdmin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.UserRoleAdmin)}

	cases := api.Group("/cases", requireAuth...)
	cases.Get("/", cfg.Cases.List)
	cases.Post("/", cfg.Cases.Create)
	cases.Get("/:id", cfg.Cases.Get)
	cases.Patch("/:id", cfg.Cases.Update)
	cases.Delete("/:id", cfg.Cases.Archive)
	cases.Get("/:id/activity", cfg.Cases.Activity)

	api.Get("/dashboard/stats", append(requireAuth, cfg.Cases.Stats)...)

	api.Get("/reports/cases", append(requireAdmin, cfg.Admin.Report)...)
	api.Get("/admin/activity", append(requireAdmin, cfg.Admin.Activity)...)
}
