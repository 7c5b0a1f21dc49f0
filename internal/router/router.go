package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bidflow/bidflow-api/internal/config"
	"github.com/bidflow/bidflow-api/internal/handler"
	"github.com/bidflow/bidflow-api/internal/middleware"
	"github.com/bidflow/bidflow-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TenderHandler       *handler.TenderHandler
	OpportunityHandler  *handler.OpportunityHandler
	TaskHandler         *handler.TaskHandler
	ComplianceHandler   *handler.ComplianceHandler
	DocumentHandler     *handler.DocumentHandler
	DashboardHandler    *handler.DashboardHandler
	ActivityFeedHandler *handler.ActivityFeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil. Role checks only apply
	// when authentication is active, otherwise no role ever reaches the guard.
	jwtMiddleware := deps.JWTMiddleware
	authenticated := jwtMiddleware != nil
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TenderHandler != nil {
		// The external feed proxy is throttled independently of the rest of
		// the API to keep the upstream portal happy.
		app.Use("/api/v1/tenders/search", middleware.RateLimit("etenders", 30, time.Minute))

		tenders := api.Group("/tenders", jwtMiddleware)
		if authenticated {
			tenders.Use(mutationsRequireRole(models.RoleBidManager))
		}
		deps.TenderHandler.Register(tenders)
	}

	var opportunities fiber.Router
	if deps.OpportunityHandler != nil {
		opportunities = api.Group("/opportunities", jwtMiddleware)
		deps.OpportunityHandler.Register(opportunities)
	}

	if opportunities != nil && deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(opportunities, tasks)
	}

	if opportunities != nil && deps.ComplianceHandler != nil {
		compliance := api.Group("/compliance", jwtMiddleware)
		deps.ComplianceHandler.Register(opportunities, compliance)
	}

	if opportunities != nil && deps.DocumentHandler != nil {
		documents := api.Group("/documents", jwtMiddleware)
		deps.DocumentHandler.Register(opportunities, documents)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.ActivityFeedHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.ActivityFeedHandler.Register(events)
	}
}

// mutationsRequireRole gates non-read methods behind a role check while
// leaving reads open to any authenticated user.
func mutationsRequireRole(roles ...string) fiber.Handler {
	guard := middleware.RequireRole(roles...)

	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		default:
			return guard(c)
		}
	}
}
