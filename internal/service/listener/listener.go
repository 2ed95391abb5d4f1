// Package listener polls the Discovery API for new messages and delivers
// each one exactly once to the registered handlers.
package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/metrics"
	"github.com/sandevgo/slackwatch/pkg/log"
)

const (
	DefaultPollingInterval = 3 * time.Second
	DefaultConcurrency     = 4
)

// Discovery is the slice of the Discovery API a listener needs.
// *discovery.Gateway satisfies it.
type Discovery interface {
	core.Moderator
	RecentConversations(ctx context.Context, since int64) ([]core.Conversation, error)
	ConversationHistory(ctx context.Context, channel, team string, since int64) ([]core.Message, error)
}

type Options struct {
	// Token is only checked for presence so a listener cannot be built
	// without a credential; requests authenticate through the Discovery
	// gateway's own client.
	Token           string
	PollingInterval time.Duration
	Concurrency     int
	CacheSize       int
}

type Option func(*Listener)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Listener) {
		l.now = now
	}
}

type Listener struct {
	interval    time.Duration
	concurrency int

	gw      Discovery
	cache   *DedupCache
	emitter *emitter
	now     func() time.Time

	// cycleMu serializes Poll; windowMu guards window alone so readers
	// never wait for a running cycle.
	cycleMu  sync.Mutex
	windowMu sync.RWMutex
	window   core.DataCollectionWindow

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(opts Options, gw Discovery, options ...Option) (*Listener, error) {
	if opts.Token == "" {
		return nil, core.ErrMissingCredential
	}
	if opts.PollingInterval < 0 {
		return nil, fmt.Errorf("polling interval must not be negative: %s", opts.PollingInterval)
	}
	if opts.PollingInterval == 0 {
		opts.PollingInterval = DefaultPollingInterval
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	l := &Listener{
		interval:    opts.PollingInterval,
		concurrency: opts.Concurrency,
		gw:          gw,
		cache:       NewDedupCache(opts.CacheSize),
		emitter:     &emitter{},
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, o := range options {
		o(l)
	}
	return l, nil
}

// On registers a handler for new messages. Handlers run in registration
// order on the worker that processed the conversation.
func (l *Listener) On(h core.MessageHandler) {
	l.emitter.on(h)
}

// Window returns a copy of the current data collection window.
func (l *Listener) Window() core.DataCollectionWindow {
	l.windowMu.RLock()
	defer l.windowMu.RUnlock()
	return l.window
}

// Start runs polling cycles until ctx is cancelled or Shutdown is called.
// A running cycle is always completed before Start returns.
func (l *Listener) Start(ctx context.Context) error {
	defer close(l.done)

	logger := log.FromCtx(ctx)
	logger.Info().
		Dur("interval", l.interval).
		Int("concurrency", l.concurrency).
		Msg("listener started")

	// Cycles outlive the stop signal so in-flight pages are not cut off.
	cycleCtx := context.WithoutCancel(ctx)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("listener stopped")
			return nil
		case <-l.stop:
			logger.Info().Msg("listener stopped")
			return nil
		case <-timer.C:
		}

		if err := l.Poll(cycleCtx); err != nil {
			logger.Error().Err(err).Msg("polling cycle failed, retrying next interval")
		}
		timer.Reset(l.interval)
	}
}

func (l *Listener) Shutdown(ctx context.Context) error {
	l.stopOnce.Do(func() { close(l.stop) })

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll runs one cycle: find active conversations since the window's lower
// bound, process them with bounded concurrency and advance the window.
// Only a failed discovery of conversations is returned, and in that case
// the window is left where it was.
func (l *Listener) Poll(ctx context.Context) error {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	ctx = log.WithFields(ctx, "cycle", uuid.NewString())
	logger := log.FromCtx(ctx)

	window := l.Window()
	started := l.now()
	since := lowerBound(window, started)
	logger.Debug().Str("phase", string(windowPhase(window))).Msgf("DCW since %d", since)

	convs, err := l.gw.RecentConversations(ctx, since)
	if err != nil {
		metrics.RecordCycle(err, l.now().Sub(started).Seconds(), 0)
		return fmt.Errorf("recent conversations: %w", err)
	}
	logger.Info().Int("conversations", len(convs)).Msg("active conversations")

	p := &processor{gw: l.gw, cache: l.cache, emitter: l.emitter}

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for _, conv := range convs {
		g.Go(func() error {
			p.process(ctx, conv, since)
			return nil
		})
	}
	_ = g.Wait()

	completed := l.now()

	// The next window starts where this one started, so messages posted
	// while the cycle ran are picked up again and deduplicated.
	l.windowMu.Lock()
	l.window = core.DataCollectionWindow{Latest: since, LastRun: started, Completed: completed}
	l.windowMu.Unlock()

	metrics.DedupEntries.Set(float64(l.cache.Len()))
	metrics.RecordCycle(nil, completed.Sub(started).Seconds(), len(convs))
	return nil
}
