package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-center/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Metrics   *handlers.MetricsHandler
	Roster    *handlers.RosterHandler
	Blobs     *handlers.BlobsHandler
	Incidents *handlers.RecordsHandler
	Tickets   *handlers.RecordsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Get)
	}

	api := app.Group("/api/v1")
	if cfg.Roster != nil {
		api.Get("/roster", cfg.Roster.List)
	}
	if cfg.Blobs != nil {
		api.Get("/blobs/:locator", cfg.Blobs.Get)
	}
	if cfg.Incidents != nil {
		registerRecordRoutes(api.Group("/incidents"), cfg.Incidents)
	}
	if cfg.Tickets != nil {
		registerRecordRoutes(api.Group("/tickets"), cfg.Tickets)
	}
}

func registerRecordRoutes(group fiber.Router, h *handlers.RecordsHandler) {
	group.Post("/", h.Create)
	group.Get("/", h.List)
	group.Get("/dashboard", h.Dashboard)
	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Post("/:id/status", h.ChangeStatus)
	group.Post("/:id/severity", h.ChangeSeverity)
	group.Post("/:id/assignee", h.Reassign)
	group.Post("/:id/activities", h.AppendActivity)
	group.Post("/:id/attachments", h.AppendAttachment)
}
