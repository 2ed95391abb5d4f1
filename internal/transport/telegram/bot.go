// Package telegram forwards moderation alerts to the owner's chat and
// answers a few status commands.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/slackwatch/internal/config"
	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

const (
	baseContextKey = "base_context"
	recentLimit    = 10
)

// WindowSource reports the listener's collection window.
type WindowSource interface {
	Window() core.DataCollectionWindow
}

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	ownerID int64

	window  WindowSource
	archive core.ArchiveRepository
}

// NewBot builds the bot. archive may be nil when archiving is disabled.
func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	window WindowSource,
	archive core.ArchiveRepository,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
		window:  window,
		archive: archive,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/status", bot.handleStatus)
	b.Handle("/actions", bot.handleActions)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// RecordAction sends a moderation alert to the owner.
func (b *Bot) RecordAction(ctx context.Context, rec core.ModerationRecord) error {
	return b.sender.sendHTML(ctx, tele.ChatID(b.ownerID), formatAlert(rec), rec.Err == nil)
}

func (b *Bot) handleStatus(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return b.sender.sendMarkdown(ctx, c.Recipient(), statusText(b.window.Window(), time.Now()), false)
}

func (b *Bot) handleActions(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	if b.archive == nil {
		return c.Send("archive is disabled")
	}

	actions, err := b.archive.RecentActions(ctx, recentLimit)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load moderation actions")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	return b.sender.sendMarkdown(ctx, c.Recipient(), actionsText(actions), false)
}

func statusText(w core.DataCollectionWindow, now time.Time) string {
	if w.LastRun.IsZero() {
		return "**Listener**: waiting for the first cycle"
	}
	return fmt.Sprintf("**Listener**\n\nlast cycle completed: %s ago\n\nnext window since: `%d`",
		now.Sub(w.Completed).Truncate(time.Second), w.LastRun.Unix())
}

func actionsText(actions []core.StoredAction) string {
	if len(actions) == 0 {
		return "No moderation actions yet."
	}

	var b strings.Builder
	b.WriteString("**Recent moderation actions**\n\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "- %s `%s` `%s`", a.CreatedAt.Format(time.DateTime), a.Action, a.ChannelID)
		if a.Rule != "" {
			fmt.Fprintf(&b, " rule %s", a.Rule)
		}
		if a.Error != "" {
			fmt.Fprintf(&b, " (failed: %s)", a.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
