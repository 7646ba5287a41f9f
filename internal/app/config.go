package app

import (
	"errors"
	"fmt"
	"time"
)

// DefaultFPS is the tick rate used when none is configured.
const DefaultFPS = 30

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CompositionPath string // hcl files
	DefinitionsPath string // shared definition hcl files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	FPS int
	// PoolSize overrides the timeline's pool_size when positive.
	PoolSize int
	// MaxDuration stops the run after this much wall time. Zero runs until
	// the timeline ends or the process is interrupted.
	MaxDuration time.Duration

	RemoteURL       string
	RemoteNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.CompositionPath == "" {
		return nil, errors.New("CompositionPath is a required configuration field and cannot be empty")
	}
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.FPS < 0 || cfg.FPS > 1000 {
		return nil, fmt.Errorf("FPS must be between 1 and 1000, got %d", cfg.FPS)
	}
	if cfg.PoolSize < 0 {
		return nil, fmt.Errorf("PoolSize cannot be negative, got %d", cfg.PoolSize)
	}
	if cfg.MaxDuration < 0 {
		return nil, fmt.Errorf("MaxDuration cannot be negative, got %s", cfg.MaxDuration)
	}
	if cfg.RemoteNamespace != "" && cfg.RemoteURL == "" {
		return nil, errors.New("RemoteNamespace requires RemoteURL")
	}
	return &cfg, nil
}

// tickInterval is the wall time between two ticks.
func (c *Config) tickInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
