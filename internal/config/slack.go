package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

type SlackConfig struct {
	Token             string        `env:"SLACK_DISCOVERY_TOKEN" secret:"true"`
	APIURL            string        `env:"SLACK_API_URL" envDefault:"https://slack.com/api/"`
	RequestsPerMinute int           `env:"SLACK_REQUESTS_PER_MINUTE" envDefault:"50"`
	HTTPTimeout       time.Duration `env:"SLACK_HTTP_TIMEOUT" envDefault:"30s"`
	MaxRetries        int           `env:"SLACK_MAX_RETRIES" envDefault:"3"`
}

// LoadSlackConfig parses the Slack settings. A missing or blank token is
// reported as core.ErrMissingCredential.
func LoadSlackConfig() (*SlackConfig, error) {
	c := &SlackConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse Slack config: %w", err)
	}
	c.Token = strings.TrimSpace(c.Token)
	if c.Token == "" {
		return nil, core.ErrMissingCredential
	}
	if c.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("SLACK_REQUESTS_PER_MINUTE must be >= 0, got %d", c.RequestsPerMinute)
	}
	return c, nil
}

func NewSlackConfig(ctx context.Context) *SlackConfig {
	c, err := LoadSlackConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to load Slack config")
	}
	return c
}

func (c SlackConfig) GetToken() string {
	return c.Token
}
