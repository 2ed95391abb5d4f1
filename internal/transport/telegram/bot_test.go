package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/slackwatch/internal/core"
)

type sent struct {
	to   string
	what string
	opts []interface{}
}

type fakePoster struct {
	sent []sent
	err  error
}

func (f *fakePoster) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sent{to: to.Recipient(), what: what.(string), opts: opts})
	return &tele.Message{}, nil
}

func TestFormatAlert(t *testing.T) {
	tests := []struct {
		name     string
		rec      core.ModerationRecord
		contains []string
		excludes []string
	}{
		{
			name: "successful tombstone",
			rec: core.ModerationRecord{
				Action: core.ActionTombstone, ChannelID: "C1", TS: "100.1", Team: "T1", Rule: "pizza",
				Text: "who wants *pizza*?",
			},
			contains: []string{"🛡 <b>tombstone</b> in <code>C1</code> (T1)", "ts: <code>100.1</code>", "rule: <b>pizza</b>", "<blockquote>", "<strong>pizza</strong>?"},
			excludes: []string{"failed"},
		},
		{
			name: "failed delete escapes error",
			rec: core.ModerationRecord{
				Action: core.ActionDelete, ChannelID: "C2", TS: "1", Err: errors.New("bad <input>"),
			},
			contains: []string{"⚠️ <b>delete</b>", "failed: bad &lt;input&gt;"},
			excludes: []string{"<blockquote>", "rule:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAlert(tt.rec)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestFormatAlert_TruncatesLongText(t *testing.T) {
	got := formatAlert(core.ModerationRecord{Action: core.ActionDelete, Text: strings.Repeat("ж", 2000)})
	assert.Contains(t, got, "…")
	assert.Less(t, len(got), 2*maxQuotedLen)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "ж" is two bytes; never split it
	assert.Equal(t, "ж", truncate("жж", 3))
}

func TestSplitHTML(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{name: "short", text: "hello", maxLen: 10, want: []string{"hello"}},
		{name: "hard cut", text: "abcdefghij", maxLen: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "newline preferred", text: "aaaa\nbbbbbb", maxLen: 8, want: []string{"aaaa", "bbbbbb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitHTML(tt.text, tt.maxLen))
		})
	}
}

func TestBot_RecordAction(t *testing.T) {
	poster := &fakePoster{}
	b := &Bot{sender: newSender(poster), ownerID: 42}

	err := b.RecordAction(context.Background(), core.ModerationRecord{Action: core.ActionTombstone, ChannelID: "C1", TS: "1"})
	require.NoError(t, err)

	require.Len(t, poster.sent, 1)
	assert.Equal(t, "42", poster.sent[0].to)
	assert.Contains(t, poster.sent[0].what, "tombstone")
	assert.Contains(t, poster.sent[0].opts, tele.Silent)

	poster.err = errors.New("network down")
	err = b.RecordAction(context.Background(), core.ModerationRecord{Action: core.ActionDelete})
	assert.Error(t, err)
}

func TestStatusText(t *testing.T) {
	now := time.Unix(1700000100, 0)

	assert.Contains(t, statusText(core.DataCollectionWindow{}, now), "waiting")

	got := statusText(core.DataCollectionWindow{
		Latest:    1699999990,
		LastRun:   time.Unix(1700000060, 0),
		Completed: time.Unix(1700000090, 0),
	}, now)
	assert.Contains(t, got, "completed: 10s ago")
	assert.Contains(t, got, "1700000060")
}

func TestActionsText(t *testing.T) {
	assert.Equal(t, "No moderation actions yet.", actionsText(nil))

	got := actionsText([]core.StoredAction{
		{Action: "delete", ChannelID: "C1", Rule: "secrets", Error: "not_allowed", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	})
	assert.Contains(t, got, "2024-05-01 12:00:00")
	assert.Contains(t, got, "rule secrets")
	assert.Contains(t, got, "failed: not_allowed")
}
