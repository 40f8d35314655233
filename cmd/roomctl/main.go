package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	"roomplanner/internal/common/logging"
	"roomplanner/internal/engine/editor"
	"roomplanner/internal/engine/furniture"
	"roomplanner/internal/engine/picking"
	"roomplanner/internal/sceneclient"
)

// ============================================================
// Headless editor host
// ============================================================

func main() {
	var (
		launchURL = flag.String("launch", "", "page URL with ?mode=view and ?scene=<id>")
		apiURL    = flag.String("api", "http://localhost:3000/api/v1/scenes", "scenes API collection URL")
		script    = flag.String("script", "-", "command script, - for stdin")
		level     = flag.String("log-level", "info", "log level")
		size      = flag.Float64("size", 800, "square canvas size in pixels")
		extent    = flag.Float64("extent", 10, "half the floor span visible on the canvas")
	)
	flag.Parse()

	log := logging.Console("roomctl", *level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := editor.DefaultConfig()
	viewport := picking.Viewport{Width: *size, Height: *size}
	ed := editor.New(cfg, picking.NewTopDownCamera(*extent, 20), viewport,
		editor.WithLogger(log),
		editor.WithShell(logShell{log: log}),
		editor.WithStore(sceneclient.New(*apiURL)),
		editor.WithLibrary(furniture.Default(furniture.WithLogger(log))),
	)

	launch := editor.Launch{}
	if *launchURL != "" {
		l, err := editor.ParseLaunch(*launchURL)
		if err != nil {
			log.Fatal().Err(err).Msg("launch url")
		}
		launch = l
	}
	if err := ed.Start(ctx, launch); err != nil {
		log.Fatal().Err(err).Msg("start")
	}

	var in io.Reader = os.Stdin
	if *script != "-" {
		f, err := os.Open(*script)
		if err != nil {
			log.Fatal().Err(err).Msg("open script")
		}
		defer f.Close()
		in = f
	}

	r := &runner{
		ed:     ed,
		screen: screen{viewport: viewport, halfExtent: *extent},
		out:    os.Stdout,
		log:    log,
	}
	if err := r.Run(ctx, in); err != nil {
		log.Error().Err(err).Msg("script failed")
		stop()
		os.Exit(1)
	}
}
