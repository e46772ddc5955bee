package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/http/handlers"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Shipments      *handlers.ShipmentsHandler
	Products       *handlers.ProductsHandler
	Notifications  *handlers.NotificationsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	app.Get("/shipments/track/:trackingNumber", cfg.Shipments.Track)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	users := protected.Group("/users", auth.RequireAction(policy.ActionManageUsers))
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	shipments := protected.Group("/shipments")
	shipments.Post("/", auth.RequireAction(policy.ActionCreateShipment), cfg.Shipments.Create)
	shipments.Get("/", auth.RequireAction(policy.ActionViewShipments), cfg.Shipments.List)
	shipments.Get("/:id", auth.RequireAction(policy.ActionViewShipments), cfg.Shipments.Get)
	shipments.Patch("/:id/status", auth.RequireAction(policy.ActionUpdateShipmentStatus), cfg.Shipments.UpdateStatus)
	shipments.Patch("/:id/basic-status", auth.RequireAction(policy.ActionUpdateShipmentBasic), cfg.Shipments.UpdateBasicStatus)
	shipments.Get("/:id/history", auth.RequireAction(policy.ActionViewAuditLog), cfg.Shipments.History)
	shipments.Post("/:tracking/products", auth.RequireAction(policy.ActionManageProducts), cfg.Products.Create)
	shipments.Get("/:tracking/products", auth.RequireAction(policy.ActionViewShipments), cfg.Products.List)

	products := protected.Group("/products", auth.RequireAction(policy.ActionManageProducts))
	products.Patch("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)

	admin := protected.Group("/admin", auth.RequireAction(policy.ActionRunStatusUpdater))
	admin.Post("/status-updater/run", cfg.Admin.RunStatusUpdater)
}
