package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/http/handlers"
	"github.com/spec-kit/event-registration-service/internal/auth"
)

// RouteConfig bundles the handlers and middlewares routes depend on.
type RouteConfig struct {
	Auth          *auth.AuthMiddleware
	Users         *handlers.UsersHandler
	Events        *handlers.EventsHandler
	Registrations *handlers.RegistrationsHandler
	CheckIn       *handlers.CheckInHandler
	Health        *handlers.HealthHandler
}

// RegisterRoutes wires all HTTP routes onto the app.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	events := api.Group("/events")
	events.Get("/", cfg.Events.ListEvents)
	events.Get("/:id", cfg.Events.GetEvent)
	events.Get("/:id/metrics", cfg.Events.GetMetrics)
	events.Get("/:id/forecast", cfg.Events.GetForecast)

	authenticated := api.Group("", cfg.Auth.Handle, auth.RequireUser())
	authenticated.Post("/events/:id/registrations", cfg.Registrations.Register)
	authenticated.Get("/me/registrations", cfg.Registrations.ListMine)
	authenticated.Get("/registrations/:id/qr", cfg.Registrations.TicketQR)
	authenticated.Delete("/events/:id/registrations", cfg.Registrations.Unregister)

	managers := api.Group("", cfg.Auth.Handle, auth.RequireEventManager())
	managers.Post("/events", cfg.Events.CreateEvent)

	admin := api.Group("", cfg.Auth.Handle, auth.RequireAdmin())
	admin.Patch("/events/:id/close", cfg.Events.CloseEvent)
	admin.Patch("/events/:id/reopen", cfg.Events.ReopenEvent)
	admin.Post("/events/:id/reconcile", cfg.Events.Reconcile)
	admin.Get("/events/:id/registrations", cfg.Registrations.ListForEvent)
	admin.Post("/events/:id/checkin/sessions", cfg.CheckIn.OpenSession)
	admin.Get("/checkin/sessions/:id", cfg.CheckIn.GetSession)
	admin.Post("/checkin/sessions/:id/scans", cfg.CheckIn.Scan)
	admin.Post("/checkin/sessions/:id/reset", cfg.CheckIn.ResetSession)
	admin.Delete("/checkin/sessions/:id", cfg.CheckIn.CloseSession)
}
