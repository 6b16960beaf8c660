package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/melih/healthwatch/internal/core/ports"
)

// NewApp wires the read-only status routes. metrics may be nil.
func NewApp(status ports.StatusReader, metrics http.Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler := NewStatusHandler(status)

	app.Get("/healthz", handler.Healthz)
	if metrics != nil {
		// Fiber <-> net/http adaptor for the Prometheus handler
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	containers := v1.Group("/containers")
	containers.Get("/", handler.ListContainers)
	containers.Get("/:name", handler.GetContainer)

	return app
}
