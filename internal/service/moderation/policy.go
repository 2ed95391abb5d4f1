// Package moderation applies keyword rules to delivered messages.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

type Options struct {
	// DryRun logs matches without calling the API.
	DryRun bool
}

// Policy is a core.MessageHandler that moderates messages matching a rule.
// The first matching rule wins.
type Policy struct {
	rules     []Rule
	dryRun    bool
	observers []core.ModerationObserver
	now       func() time.Time
}

func NewPolicy(rules []Rule, opts Options, observers ...core.ModerationObserver) (*Policy, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return &Policy{
		rules:     rules,
		dryRun:    opts.DryRun,
		observers: observers,
		now:       time.Now,
	}, nil
}

func (p *Policy) Rules() []Rule {
	return p.rules
}

// Handle matches the signature of core.MessageHandler.
func (p *Policy) Handle(ctx context.Context, ev core.MessageEvent) {
	rule, keyword, ok := p.match(ev.Message.Text)
	if !ok {
		return
	}

	logger := log.FromCtx(ctx).With().
		Str("rule", rule.Name).
		Str("keyword", keyword).
		Str("channel", ev.ChannelID).
		Str("ts", ev.Message.TS).
		Logger()

	if p.dryRun {
		logger.Info().Str("action", string(rule.Action)).Msg("dry run, message not moderated")
		return
	}

	rec := core.ModerationRecord{
		Action:    rule.Action,
		ChannelID: ev.ChannelID,
		TS:        ev.Message.TS,
		Team:      ev.Message.Team,
		Rule:      rule.Name,
		Text:      ev.Message.Text,
		At:        p.now(),
	}
	rec.Err = p.apply(ctx, ev, rule)
	if rec.Err != nil {
		logger.Error().Err(rec.Err).Msg("rule matched but moderation failed")
	}

	for _, o := range p.observers {
		if err := o.RecordAction(ctx, rec); err != nil {
			logger.Warn().Err(err).Msgf("%T failed to record action", o)
		}
	}
}

func (p *Policy) match(text string) (Rule, string, bool) {
	for _, r := range p.rules {
		if kw, ok := r.Matches(text); ok {
			return r, kw, true
		}
	}
	return Rule{}, "", false
}

func (p *Policy) apply(ctx context.Context, ev core.MessageEvent, rule Rule) error {
	if ev.Moderator == nil {
		return fmt.Errorf("event for %s carries no moderator", core.MessageKey(ev.ChannelID, ev.Message.TS))
	}

	msg := ev.Message
	switch rule.Action {
	case core.ActionTombstone:
		return ev.Moderator.Tombstone(ctx, msg.TS, ev.ChannelID, msg.Team, rule.Replacement)
	case core.ActionDelete:
		return ev.Moderator.Delete(ctx, msg.TS, ev.ChannelID, msg.Team)
	default:
		return core.ErrUnknownAction
	}
}
