package discovery

import (
	"context"
	"slices"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/metrics"
	"github.com/sandevgo/slackwatch/pkg/log"
)

// Gateway exposes the typed Discovery API operations used by the listener
// and the CLI. Reads are paginated; moderation calls are single-shot.
type Gateway struct {
	caller Caller
	pages  PageOptions
}

var _ core.Moderator = (*Gateway)(nil)

func NewGateway(caller Caller, pages PageOptions) *Gateway {
	return &Gateway{caller: caller, pages: pages}
}

// RecentConversations lists conversations with activity since the given
// unix time.
func (g *Gateway) RecentConversations(ctx context.Context, since int64) ([]core.Conversation, error) {
	return Paginate(ctx, g.caller, recentConversations, Params{"latest": unixParam(since)}, g.pages)
}

func (g *Gateway) AllConversations(ctx context.Context) ([]core.Conversation, error) {
	return Paginate(ctx, g.caller, allConversations, Params{}, g.pages)
}

func (g *Gateway) AllTeams(ctx context.Context) ([]core.Team, error) {
	return Paginate(ctx, g.caller, enterpriseTeams, Params{}, g.pages)
}

// ConversationHistory returns the messages of channel posted since the
// given unix time, oldest first. An empty team makes a grid-scoped call.
func (g *Gateway) ConversationHistory(ctx context.Context, channel, team string, since int64) ([]core.Message, error) {
	params := Params{
		"channel": channel,
		"oldest":  unixParam(since),
	}
	if team != "" {
		params["team"] = team
	}

	msgs, err := Paginate(ctx, g.caller, conversationHistory, params, g.pages)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (g *Gateway) Tombstone(ctx context.Context, ts, channel, team, replacement string) error {
	params := moderationParams(ts, channel, team)
	if replacement != "" {
		params["content"] = replacement
	}
	return g.moderate(ctx, core.ActionTombstone, methodChatTombstone, params)
}

func (g *Gateway) Restore(ctx context.Context, ts, channel, team string) error {
	return g.moderate(ctx, core.ActionRestore, methodChatRestore, moderationParams(ts, channel, team))
}

func (g *Gateway) Delete(ctx context.Context, ts, channel, team string) error {
	return g.moderate(ctx, core.ActionDelete, methodChatDelete, moderationParams(ts, channel, team))
}

func (g *Gateway) moderate(ctx context.Context, action core.ModerationAction, method string, params Params) error {
	_, err := g.caller.Call(ctx, method, params)
	metrics.RecordModeration(string(action), err)

	logger := log.FromCtx(ctx)
	if err != nil {
		logger.Error().Err(err).Str("action", string(action)).Str("channel", params["channel"]).Str("ts", params["ts"]).Msg("moderation call failed")
		return err
	}
	logger.Info().Str("action", string(action)).Str("channel", params["channel"]).Str("ts", params["ts"]).Msg("message moderated")
	return nil
}

func moderationParams(ts, channel, team string) Params {
	p := Params{"ts": ts, "channel": channel}
	if team != "" {
		p["team"] = team
	}
	return p
}
