package main

import (
	"context"
	"fmt"
	"time"

	"roomplanner/internal/common/config"
	"roomplanner/internal/common/health"
	"roomplanner/internal/common/logging"
	"roomplanner/internal/common/middleware"
	"roomplanner/internal/scenes/handlers"
	"roomplanner/internal/scenes/repository"
	"roomplanner/internal/scenes/storage"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Scenes Service
// ============================================================

func main() {
	cfg := config.Load()
	log := logging.New("scenes", cfg.LogLevel, nil)

	db, err := repository.OpenSQLite(cfg.Scenes.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.Scenes.Migrations); err != nil {
		log.Fatal().Err(err).Msg("init db")
	}

	files := storage.NewFileStorage(cfg.Scenes.StorageDir)
	if err := files.EnsureDir(); err != nil {
		// the first write retries; Download recreates missing files
		log.Error().Err(err).Msg("create storage dir")
	}

	sceneHandler := handlers.NewSceneHandler(repo, files, cfg.Gateway.ConverterURL, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Scenes Service",
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("scenes"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, repo)

	// ============================================================
	// Scene Routes
	// ============================================================

	sceneHandler.Register(app.Group("/api/scenes"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("starting scenes service")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
