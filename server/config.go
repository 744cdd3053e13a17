// Package server exposes the forecasting pipeline over HTTP: dataset
// uploads, series and stats queries, forecast runs, chart rendering,
// and a websocket stream of pipeline events.
package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from TIMESEER_-prefixed environment variables.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8090"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"120s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	EngineURL     string        `envconfig:"ENGINE_URL" default:"http://localhost:5000"`
	EngineTimeout time.Duration `envconfig:"ENGINE_TIMEOUT" default:"60s"`
	TrainFraction float64       `envconfig:"TRAIN_FRACTION" default:"0.8"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("TIMESEER", &cfg); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}
	if cfg.TrainFraction <= 0 || cfg.TrainFraction >= 1 {
		return nil, fmt.Errorf("TIMESEER_TRAIN_FRACTION must be in (0, 1), got %f", cfg.TrainFraction)
	}
	return &cfg, nil
}
