package gateway

import (
	"github.com/gofiber/fiber/v3"

	"roomplanner/internal/common/config"
	"roomplanner/internal/common/health"
	"roomplanner/internal/gateway/handlers"
	"roomplanner/internal/gateway/proxy"
)

// Register mounts health, docs and the /api/v1 proxy routes.
func Register(app *fiber.App, cfg config.GatewayConfig, p *proxy.Proxy) {
	health.Register(app,
		proxy.Upstream{Name: "scenes", URL: cfg.ScenesURL},
		proxy.Upstream{Name: "converter", URL: cfg.ConverterURL},
	)

	docs := handlers.NewDocs(cfg.OpenAPIPath, "/docs/openapi.yaml")
	app.Get("/docs", docs.UI)
	app.Get("/docs/openapi.yaml", docs.Spec)

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Room Planner API v1",
			"status":  "ok",
		})
	})

	// Scenes Service
	scenes := p.Prefix(cfg.ScenesURL + "/api/scenes")
	api.All("/scenes", scenes)
	api.All("/scenes/*", scenes)

	// Converter Service
	api.Post("/convert", p.To(cfg.ConverterURL+"/convert"))
	api.Post("/render", p.To(cfg.ConverterURL+"/render"))
}
