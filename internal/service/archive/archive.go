// Package archive persists delivered messages and moderation actions.
package archive

import (
	"context"
	"sync"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

const defaultQueueSize = 1024

type item struct {
	channelID string
	msg       core.Message
}

// Archiver is a message handler that writes to the archive from a single
// goroutine, so polling workers never wait on disk. When the queue is full
// messages are dropped and logged.
type Archiver struct {
	repo core.ArchiveRepository

	mu     sync.RWMutex
	closed bool
	queue  chan item
	done   chan struct{}
}

func NewArchiver(repo core.ArchiveRepository, queueSize int) *Archiver {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Archiver{
		repo:  repo,
		queue: make(chan item, queueSize),
		done:  make(chan struct{}),
	}
}

func (a *Archiver) Handle(ctx context.Context, ev core.MessageEvent) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return
	}

	select {
	case a.queue <- item{channelID: ev.ChannelID, msg: ev.Message}:
	default:
		log.FromCtx(ctx).Warn().
			Str("channel", ev.ChannelID).
			Str("ts", ev.Message.TS).
			Msg("archive queue full, message not archived")
	}
}

// RecordAction writes the action synchronously; moderation is rare.
func (a *Archiver) RecordAction(ctx context.Context, rec core.ModerationRecord) error {
	return a.repo.SaveAction(ctx, rec)
}

// Start drains the queue until Shutdown closes it.
func (a *Archiver) Start(ctx context.Context) error {
	defer close(a.done)

	logger := log.FromCtx(ctx)
	logger.Info().Msg("archive started")

	// writes outlive cancellation so the queue can be drained
	writeCtx := context.WithoutCancel(ctx)
	for it := range a.queue {
		if err := a.repo.SaveMessage(writeCtx, it.channelID, it.msg); err != nil {
			logger.Error().Err(err).
				Str("channel", it.channelID).
				Str("ts", it.msg.TS).
				Msg("failed to archive message")
		}
	}
	return nil
}

func (a *Archiver) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
