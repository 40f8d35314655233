package main

import (
	"fmt"
	"time"

	"roomplanner/internal/common/config"
	"roomplanner/internal/common/logging"
	"roomplanner/internal/common/middleware"
	"roomplanner/internal/gateway"
	"roomplanner/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()
	log := logging.New("gateway", cfg.LogLevel, nil)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Room Planner Gateway",
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("gateway"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	gateway.Register(app, cfg.Gateway, proxy.New(nil, log))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("env", cfg.Environment).
		Str("scenes", cfg.Gateway.ScenesURL).
		Str("converter", cfg.Gateway.ConverterURL).
		Msg("starting gateway")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
