package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string
	CORSOrigins  []string

	Scenes    ScenesConfig
	Converter ConverterConfig
	Gateway   GatewayConfig
}

// ScenesConfig is the persistence service setup.
type ScenesConfig struct {
	DBPath     string
	StorageDir string
	Migrations string
}

// ConverterConfig controls plan conversion.
type ConverterConfig struct {
	UnitsPerPixel float64
	GridSize      float64
	WallHeight    float64
	WallThickness float64
	MaxEdges      int
}

// GatewayConfig points the gateway at its upstreams.
type GatewayConfig struct {
	ScenesURL    string
	ConverterURL string
	OpenAPIPath  string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		Scenes: ScenesConfig{
			DBPath:     getEnv("SCENES_DB_PATH", "data/db/scenes.db"),
			StorageDir: getEnv("SCENES_STORAGE_DIR", "storage"),
			Migrations: getEnv("SCENES_MIGRATIONS", "migrations/001_init_scenes.sql"),
		},
		Converter: ConverterConfig{
			UnitsPerPixel: getEnvAsFloat("PLAN_UNITS_PER_PX", 0.01),
			GridSize:      getEnvAsFloat("PLAN_GRID_SIZE", 2),
			WallHeight:    getEnvAsFloat("PLAN_WALL_HEIGHT", 2),
			WallThickness: getEnvAsFloat("PLAN_WALL_THICKNESS", 0.2),
			MaxEdges:      getEnvAsInt("PLAN_MAX_EDGES", 10000),
		},
		Gateway: GatewayConfig{
			ScenesURL:    getEnv("SCENES_URL", "http://localhost:8081"),
			ConverterURL: getEnv("CONVERTER_URL", "http://localhost:8082"),
			OpenAPIPath:  getEnv("OPENAPI_PATH", "docs/scenes.openapi.yaml"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsFloat ignores values that are not positive numbers.
func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
