package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/http/handlers"
	"github.com/spec-kit/ticket-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Delete("", cfg.Tickets.DeleteTickets)
	tickets.Post("/exists", cfg.Tickets.CheckTicketsExist)
	tickets.Get("/created", cfg.Tickets.ListCreated)
	tickets.Get("/assigned-to-me", cfg.Tickets.ListAssignedToMe)
	tickets.Get("/assigned-by-me", cfg.Tickets.ListAssignedByMe)
	tickets.Get("/search", cfg.Tickets.SearchTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/assignments", cfg.Assignments.AssignTicket)
	tickets.Get("/:id/assignments", cfg.Assignments.ListByTicket)

	assignments := app.Group("/assignments", cfg.AuthMiddleware.Handle)
	assignments.Patch("/:id/status", cfg.Assignments.UpdateStatus)
}
