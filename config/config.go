// Package config loads the application's environment configuration. The
// process refuses to start without DATABASE_URL rather than falling back to a
// default that could point migrations at the wrong database.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
