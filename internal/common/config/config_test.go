package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "data/db/scenes.db", cfg.Scenes.DBPath)
	assert.Equal(t, 0.01, cfg.Converter.UnitsPerPixel)
	assert.Equal(t, 10000, cfg.Converter.MaxEdges)
	assert.Equal(t, 2.0, cfg.Converter.GridSize)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("READ_TIMEOUT", "oops")
	t.Setenv("PLAN_UNITS_PER_PX", "0.02")
	t.Setenv("PLAN_GRID_SIZE", "-1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SCENES_URL", "http://scenes:8081")
	t.Setenv("PLAN_MAX_EDGES", "500")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, 0.02, cfg.Converter.UnitsPerPixel)
	assert.Equal(t, 2.0, cfg.Converter.GridSize)
	assert.Equal(t, 500, cfg.Converter.MaxEdges)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "http://scenes:8081", cfg.Gateway.ScenesURL)
}
