package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ngo-case-service/internal/api/http/handlers"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/observability"
	"github.com/spec-kit/ngo-case-service/internal/permission"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Cases       *handlers.CasesHandler
	SupplyNeeds *handlers.SupplyNeedsHandler
	Gate        *auth.Gate
	Metrics     *observability.Metrics
}

func policy(action permission.Action) permission.RoutePolicy {
	return permission.RoutePolicy{Action: action}
}

// RegisterRoutes wires HTTP routes. Every /api route except login and
// email verification declares its policy through the gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	gate := cfg.Gate
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Get("/me", gate.Require(policy(permission.ActionView)), cfg.Auth.Me)
	authGroup.Get("/workers", gate.Require(policy(permission.ActionSupervise)), cfg.Auth.ListWorkers)

	cases := api.Group("/cases")
	cases.Get("/accessible", gate.Require(policy(permission.ActionView)), cfg.Cases.Accessible)
	cases.Get("/:caseId", gate.Require(permission.RoutePolicy{
		Action:      permission.ActionView,
		CaseIDParam: "caseId",
	}), cfg.Cases.GetCase)

	api.Get("/permissions/check", gate.Require(policy(permission.ActionView)), cfg.Cases.CheckPermission)

	needs := api.Group("/regular-supplies-needs")
	needs.Get("/:id", gate.Require(policy(permission.ActionView)), cfg.SupplyNeeds.Get)
	needs.Post("/:id/approve", gate.Require(policy(permission.ActionApprove)), cfg.SupplyNeeds.Approve)
	needs.Post("/:id/reject", gate.Require(policy(permission.ActionReject)), cfg.SupplyNeeds.Reject)
	needs.Post("/:id/collect", gate.Require(policy(permission.ActionDistribute)), cfg.SupplyNeeds.Collect)
	needs.Delete("/:id", gate.Require(policy(permission.ActionDelete)), cfg.SupplyNeeds.Delete)
}
