package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/slackwatch/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"SLACKWATCH_RUNTIME_PATH"`

	// Optional downstream consumers
	EnableArchive  bool `env:"ENABLE_ARCHIVE" envDefault:"false"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Prometheus endpoint, disabled when empty
	MetricsAddr string `env:"METRICS_ADDR"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "archive.db")
}

func (c AppConfig) IsArchiveEnabled() bool {
	return c.EnableArchive
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
