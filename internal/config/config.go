// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process settings. Rule tables live in YAML under ConfigDir.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR"       envDefault:":8080"`
	GRPCAddr       string        `env:"GRPC_ADDR"       envDefault:":9090"`
	ConfigDir      string        `env:"CONFIG_DIR"      envDefault:"configs"`
	Game           string        `env:"GAME"`
	LogConfig      string        `env:"LOG_CONFIG"      envDefault:"configs/logging.yaml"`
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" envDefault:"5s"`
	SimConcurrency int           `env:"SIM_CONCURRENCY" envDefault:"4"`
	SimTimeout     time.Duration `env:"SIM_TIMEOUT"     envDefault:"30s"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE"  envDefault:"10s"`
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		errs = append(errs, errors.New("at least one of HTTP_ADDR or GRPC_ADDR must be set"))
	}
	if c.SimConcurrency < 1 {
		errs = append(errs, errors.New("SIM_CONCURRENCY must be >= 1"))
	}
	if c.SimTimeout <= 0 {
		errs = append(errs, errors.New("SIM_TIMEOUT must be > 0"))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, errors.New("RELOAD_INTERVAL must be >= 0 (0 disables reload)"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
