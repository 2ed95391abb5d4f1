package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/slackwatch/internal/config"
	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/discovery"
	"github.com/sandevgo/slackwatch/internal/metrics"
	"github.com/sandevgo/slackwatch/internal/service/archive"
	"github.com/sandevgo/slackwatch/internal/service/listener"
	"github.com/sandevgo/slackwatch/internal/service/moderation"
	"github.com/sandevgo/slackwatch/internal/storage/sqlite"
	"github.com/sandevgo/slackwatch/internal/transport/telegram"
	"github.com/sandevgo/slackwatch/pkg/log"
	"github.com/sandevgo/slackwatch/pkg/srv"
)

// NewServices wires the listener and its consumers. Services are shut down
// in reverse order, so the listener stops before anything it feeds.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	slackCfg := config.NewSlackConfig(ctx)
	listenerCfg := config.NewListenerConfig(ctx)
	moderationCfg := config.NewModerationConfig(ctx)

	// 2. Discovery API
	gw, err := newGateway(slackCfg, listenerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize discovery client")
	}

	l, err := listener.New(listener.Options{
		Token:           slackCfg.GetToken(),
		PollingInterval: listenerCfg.GetPollingInterval(),
		Concurrency:     listenerCfg.Concurrency,
		CacheSize:       listenerCfg.DedupCacheSize,
	}, gw)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize listener")
	}
	l.On(logMessage)

	// 3. Metrics
	if appCfg.MetricsAddr != "" {
		services = append(services, metrics.NewServer(appCfg.MetricsAddr))
	}

	var observers []core.ModerationObserver

	// 4. Archive
	var repo core.ArchiveRepository
	if appCfg.IsArchiveEnabled() {
		db, err := initStorage(ctx, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		services = append(services, srv.NewCleanup(db.Close))

		repo = sqlite.NewArchiveRepo(db)
		archiver := archive.NewArchiver(repo, 0)
		l.On(archiver.Handle)
		observers = append(observers, archiver)
		services = append(services, archiver)
	}

	// 5. Telegram alerts
	if appCfg.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), l, repo)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		observers = append(observers, bot)
		services = append(services, bot)
	}

	// 6. Moderation rules
	rules, err := moderation.LoadRules(moderationCfg.RulesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", moderationCfg.RulesPath).Msg("failed to load moderation rules")
	}
	if len(rules) > 0 {
		policy, err := moderation.NewPolicy(rules, moderation.Options{DryRun: moderationCfg.DryRun}, observers...)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize moderation policy")
		}
		l.On(policy.Handle)
		logger.Info().Int("rules", len(rules)).Bool("dry_run", moderationCfg.DryRun).Msg("moderation enabled")
	}

	// 7. Listener goes last so it is shut down first
	services = append(services, l)

	return services
}

func newGateway(slackCfg *config.SlackConfig, listenerCfg *config.ListenerConfig) (*discovery.Gateway, error) {
	client, err := discovery.NewClient(discovery.ClientOptions{
		BaseURL:           slackCfg.APIURL,
		Token:             slackCfg.GetToken(),
		Timeout:           slackCfg.HTTPTimeout,
		RequestsPerMinute: slackCfg.RequestsPerMinute,
		MaxRetries:        slackCfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	return discovery.NewGateway(client, discovery.PageOptions{Delay: listenerCfg.PageDelay}), nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func logMessage(ctx context.Context, ev core.MessageEvent) {
	log.FromCtx(ctx).Debug().
		Str("channel", ev.ChannelID).
		Str("ts", ev.Message.TS).
		Str("user", ev.Message.User).
		Msg(ev.Message.Text)
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
