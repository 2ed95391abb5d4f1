package telegram

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/slackwatch/pkg/conv"
	"github.com/sandevgo/slackwatch/pkg/log"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// poster is the part of *tele.Bot used for outgoing messages.
type poster interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot poster
}

func newSender(bot poster) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	return s.sendHTML(ctx, to, strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md))), silent)
}

func (s *sender) sendHTML(ctx context.Context, to tele.Recipient, html string, silent bool) error {
	logger := log.FromCtx(ctx)

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := []interface{}{tele.ModeHTML, tele.NoPreview}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It prefers newlines in the last two thirds of a chunk.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
