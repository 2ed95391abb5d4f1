package srv

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/slackwatch/pkg/log"
)

const defaultShutdownTimeout = 15 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs every service in its own goroutine. A service that
// fails to start triggers stop, so the process shuts down instead of
// running half-configured.
func StartServices(ctx context.Context, services []Service, stop context.CancelFunc) *sync.WaitGroup {
	logger := log.FromCtx(ctx)
	var wg sync.WaitGroup
	for _, service := range services {
		wg.Add(1)
		go func(service Service) {
			defer wg.Done()
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				if stop != nil {
					stop()
				}
			}
		}(service)
	}
	return &wg
}

// ShutdownServices blocks until ctx is done, then shuts services down in
// reverse order with a fresh deadline.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultShutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
