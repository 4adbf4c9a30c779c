package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/sweet-shop/api-gateway/config"
	"github.com/tair/sweet-shop/api-gateway/health"
	"github.com/tair/sweet-shop/api-gateway/middleware"
	"github.com/tair/sweet-shop/api-gateway/proxy"
	"github.com/tair/sweet-shop/pkg/auth"
)

// RouteDefinition maps a path prefix to its access requirements. The
// backend enforces authorization again; the gateway check only rejects
// obviously unauthorized traffic before it is proxied.
type RouteDefinition struct {
	Prefix      string
	Description string
	RequireAuth bool
}

// Routes holds the gateway route table.
var Routes = []RouteDefinition{
	{
		Prefix:      "/api/auth",
		Description: "Authentication endpoints (register, login, profile)",
		RequireAuth: false,
	},
	{
		Prefix:      "/api/sweets",
		Description: "Catalog and inventory operations",
		RequireAuth: true,
	},
}

// SetupRoutes configures all routes on the gateway.
func SetupRoutes(app *fiber.App, cfg *config.Config, reverseProxy *proxy.ReverseProxy, jwt *auth.JWTManager) {
	checker := health.NewChecker(cfg.APIInstances)

	// Gateway liveness (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(checker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// Readiness: at least one backend instance must answer
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		status := checker.CheckAll(ctx)
		code := fiber.StatusOK
		if status.Status == "unhealthy" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})

	app.Get("/health/instances", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		return c.JSON(checker.CheckAll(ctx))
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Sweet Shop Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerRoute(app, route, reverseProxy, jwt)
	}
}

func registerRoute(app *fiber.App, route RouteDefinition, reverseProxy *proxy.ReverseProxy, jwt *auth.JWTManager) {
	handler := func(c *fiber.Ctx) error {
		return reverseProxy.Forward(c)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware(jwt))
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
