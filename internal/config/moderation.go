package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/slackwatch/pkg/log"
)

type ModerationConfig struct {
	// JSON file with keyword rules; moderation is off when unset
	RulesPath string `env:"MODERATION_RULES_PATH"`
	DryRun    bool   `env:"MODERATION_DRY_RUN" envDefault:"false"`
}

func NewModerationConfig(ctx context.Context) *ModerationConfig {
	c := &ModerationConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Moderation config")
	}
	return c
}
