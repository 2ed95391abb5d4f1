package config

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/slackwatch/pkg/log"
)

type ListenerConfig struct {
	// Fractional seconds are allowed, e.g. 2.1
	PollingIntervalSec float64       `env:"POLLING_INTERVAL_SEC" envDefault:"3"`
	Concurrency        int           `env:"LISTENER_CONCURRENCY" envDefault:"4"`
	DedupCacheSize     int           `env:"DEDUP_CACHE_SIZE" envDefault:"10000"`
	// Pause between pages; 0 means the 100ms default, a negative value disables it
	PageDelay time.Duration `env:"PAGE_DELAY" envDefault:"100ms"`
}

func LoadListenerConfig() (*ListenerConfig, error) {
	c := &ListenerConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse Listener config: %w", err)
	}
	if c.PollingIntervalSec < 0 {
		return nil, fmt.Errorf("POLLING_INTERVAL_SEC must be >= 0, got %v", c.PollingIntervalSec)
	}
	if c.Concurrency < 1 {
		return nil, fmt.Errorf("LISTENER_CONCURRENCY must be >= 1, got %d", c.Concurrency)
	}
	return c, nil
}

func NewListenerConfig(ctx context.Context) *ListenerConfig {
	c, err := LoadListenerConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to load Listener config")
	}
	return c
}

func (c ListenerConfig) GetPollingInterval() time.Duration {
	return time.Duration(math.Round(c.PollingIntervalSec * float64(time.Second)))
}
