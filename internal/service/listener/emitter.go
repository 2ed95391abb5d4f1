package listener

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

// emitter fans a MessageEvent out to every registered handler, in
// registration order.
type emitter struct {
	mu       sync.RWMutex
	handlers []core.MessageHandler
}

func (e *emitter) on(h core.MessageHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

func (e *emitter) emit(ctx context.Context, ev core.MessageEvent) {
	e.mu.RLock()
	handlers := make([]core.MessageHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		e.call(ctx, h, ev)
	}
}

// call isolates a panicking handler so the polling loop keeps running.
func (e *emitter) call(ctx context.Context, h core.MessageHandler, ev core.MessageEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Err(fmt.Errorf("panic: %v", r)).
				Str("channel", ev.ChannelID).
				Str("ts", ev.Message.TS).
				Msg("message handler panicked")
		}
	}()
	h(ctx, ev)
}
