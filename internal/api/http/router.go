package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Session        *handlers.SessionHandler
	Listings       *handlers.ListingsHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Public routes never touch the bearer
// middleware; gated routes run it first, then the role gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Get("/session", cfg.Session.Resolve)
	authGroup.Post("/customers/register", cfg.Auth.RegisterCustomer)
	authGroup.Post("/customers/login", cfg.Auth.LoginCustomer)
	authGroup.Post("/providers/register", cfg.Auth.RegisterProvider)
	authGroup.Post("/providers/login", cfg.Auth.LoginProvider)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authed := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authed.Post("/logout", cfg.Auth.Logout)
	authed.Post("/password/change", cfg.Auth.ChangePassword)
	authed.Post("/customers/:id/suspend",
		auth.RequireRoles(domain.RoleAdmin), cfg.Auth.SuspendCustomer)

	app.Get("/listings", cfg.Listings.Browse)
	app.Get("/listings/:id", cfg.Listings.Get)
	app.Get("/listings/:id/reviews", cfg.Bookings.ListReviews)

	app.Post("/listings", cfg.AuthMiddleware.Handle,
		auth.RequireRoles(domain.RoleProvider), cfg.Listings.Create)
	app.Put("/listings/:id", cfg.AuthMiddleware.Handle,
		auth.RequireRoles(domain.RoleProvider), cfg.Listings.Update)
	app.Delete("/listings/:id", cfg.AuthMiddleware.Handle,
		auth.RequireRoles(domain.RoleAdmin), cfg.Listings.Delete)
	app.Post("/listings/:id/reviews", cfg.AuthMiddleware.Handle,
		auth.RequireRoles(domain.RoleUser), cfg.Bookings.CreateReview)

	bookings := app.Group("/bookings", cfg.AuthMiddleware.Handle)
	bookings.Post("",
		auth.RequireRoles(domain.RoleUser, domain.RoleAdmin), cfg.Bookings.Create)
	bookings.Get("", cfg.Bookings.List)
	bookings.Post("/:id/confirm",
		auth.RequireRoles(domain.RoleProvider), cfg.Bookings.Confirm)
	bookings.Post("/:id/decline",
		auth.RequireRoles(domain.RoleProvider), cfg.Bookings.Decline)
	bookings.Post("/:id/complete",
		auth.RequireRoles(domain.RoleProvider), cfg.Bookings.Complete)
}
