package listener

import (
	"context"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/metrics"
	"github.com/sandevgo/slackwatch/pkg/log"
)

// processor turns the history of one conversation into events for
// messages that were not delivered before.
type processor struct {
	gw      Discovery
	cache   *DedupCache
	emitter *emitter
}

// historyTeam returns the team to scope a history request with. Grid-level
// conversations are queried without one.
func historyTeam(conv core.Conversation) string {
	if conv.IsGridScoped() {
		return ""
	}
	return conv.Team
}

// process returns the number of emitted messages. History errors are
// logged and counted, never returned: one broken conversation must not
// fail the cycle.
func (p *processor) process(ctx context.Context, conv core.Conversation, since int64) int {
	logger := log.FromCtx(ctx).With().
		Str("channel", conv.ID).
		Str("team", conv.Team).
		Logger()

	messages, err := p.gw.ConversationHistory(ctx, conv.ID, historyTeam(conv), since)
	if err != nil {
		metrics.HistoryFailures.Inc()
		logger.Error().Err(err).Msg("failed to fetch conversation history")
		return 0
	}

	emitted := 0
	for _, msg := range messages {
		if !p.cache.MarkIfNew(core.MessageKey(conv.ID, msg.TS)) {
			metrics.DuplicatesSuppressed.Inc()
			continue
		}

		emitted++
		metrics.MessagesEmitted.Inc()
		p.emitter.emit(ctx, core.MessageEvent{
			Message:   msg,
			ChannelID: conv.ID,
			Moderator: p.gw,
		})
	}

	if emitted > 0 {
		logger.Info().Int("messages", emitted).Msg("new messages")
	} else {
		logger.Debug().Int("fetched", len(messages)).Msg("no new messages")
	}
	return emitted
}
