// Package app assembles the fiber application from explicitly constructed
// dependencies.
package app

import (
	"productstore/internal/handlers"
	"productstore/internal/middleware"
	"productstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP app needs.
type Deps struct {
	Service *services.ProductService
	Log     *zap.Logger
	// Registry enables /metrics and request metrics when set.
	Registry *prometheus.Registry
}

// New builds the fiber app with middleware and all routes registered.
func New(deps Deps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "productstore",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))

	if deps.Registry != nil {
		metrics := middleware.NewMetrics(deps.Registry)
		app.Use(metrics.Handler())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	handlers.NewProductHandler(deps.Service, log).RegisterRoutes(app)
	return app
}
