package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Reports *handlers.ReportsHandler
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// parameterized ones so /reports and /comments are not captured by /:id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/api/tickets")

	tickets.Get("/reports/status", cfg.Reports.CountByStatus)
	tickets.Get("/reports/priority", cfg.Reports.CountByPriority)

	tickets.Put("/comments/:commentId", cfg.Tickets.UpdateComment)
	tickets.Delete("/comments/:commentId", cfg.Tickets.DeleteComment)

	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.GetByID)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Get("/:id/comments", cfg.Tickets.GetComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
}
