package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/conv"
)

const maxQuotedLen = 1000

// formatAlert renders a moderation record as Telegram HTML.
func formatAlert(rec core.ModerationRecord) string {
	var b strings.Builder

	icon := "🛡"
	if rec.Err != nil {
		icon = "⚠️"
	}
	fmt.Fprintf(&b, "%s <b>%s</b> in <code>%s</code>", icon, html.EscapeString(string(rec.Action)), html.EscapeString(rec.ChannelID))
	if rec.Team != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(rec.Team))
	}
	fmt.Fprintf(&b, "\nts: <code>%s</code>", html.EscapeString(rec.TS))
	if rec.Rule != "" {
		fmt.Fprintf(&b, "\nrule: <b>%s</b>", html.EscapeString(rec.Rule))
	}
	if rec.Err != nil {
		fmt.Fprintf(&b, "\nfailed: %s", html.EscapeString(rec.Err.Error()))
	}

	if text := strings.TrimSpace(rec.Text); text != "" {
		if len(text) > maxQuotedLen {
			text = truncate(text, maxQuotedLen) + "…"
		}
		fmt.Fprintf(&b, "\n\n<blockquote>%s</blockquote>", strings.TrimSpace(conv.SlackToTelegramHTML(text)))
	}
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
