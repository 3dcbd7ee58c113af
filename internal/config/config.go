// Package config loads process configuration from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment win over it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings.
type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Port         string `env:"PORT" envDefault:"5175"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	MovesFile    string `env:"RPS_MOVES_FILE"`
	// RoundTTL bounds how long an unplayed round (and its key) is kept by
	// the HTTP server.
	RoundTTL time.Duration `env:"ROUND_TTL" envDefault:"10m"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
