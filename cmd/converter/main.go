package main

import (
	"fmt"
	"time"

	"roomplanner/internal/common/config"
	"roomplanner/internal/common/health"
	"roomplanner/internal/common/logging"
	"roomplanner/internal/common/middleware"
	"roomplanner/internal/converter/handlers"
	"roomplanner/internal/converter/models"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg := config.Load()
	log := logging.New("converter", cfg.LogLevel, nil)

	planHandler := handlers.NewPlanHandler(models.Options{
		UnitsPerPixel: cfg.Converter.UnitsPerPixel,
		GridSize:      cfg.Converter.GridSize,
		WallHeight:    cfg.Converter.WallHeight,
		WallThickness: cfg.Converter.WallThickness,
		MaxEdges:      cfg.Converter.MaxEdges,
	}, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Converter Service",
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("converter"))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app)

	// ============================================================
	// Converter Routes
	// ============================================================

	app.Post("/convert", planHandler.ConvertSVG)
	app.Post("/render", planHandler.RenderSVG)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("starting converter service")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
