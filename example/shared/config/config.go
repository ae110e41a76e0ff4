// Package config holds the environment configuration of the demo
// session simulator.
package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration of the session simulator.
type Config struct {
	PostgresURL string `env:"POSTGRES_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	EventRate   int    `env:"EVENT_RATE" envDefault:"50"` // runtime events per second
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9091"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
