package core

import (
	"context"
	"time"
)

type ModerationAction string

const (
	ActionTombstone ModerationAction = "tombstone"
	ActionRestore   ModerationAction = "restore"
	ActionDelete    ModerationAction = "delete"
)

func ParseModerationAction(s string) (ModerationAction, error) {
	switch a := ModerationAction(s); a {
	case ActionTombstone, ActionRestore, ActionDelete:
		return a, nil
	default:
		return "", ErrUnknownAction
	}
}

// ModerationRecord describes one moderation call, successful or not.
type ModerationRecord struct {
	Action    ModerationAction
	ChannelID string
	TS        string
	Team      string
	Rule      string
	Text      string
	Err       error
	At        time.Time
}

// ModerationObserver is notified after a moderation call was attempted.
type ModerationObserver interface {
	RecordAction(ctx context.Context, rec ModerationRecord) error
}

type StoredMessage struct {
	ID        int64     `json:"id"`
	ChannelID string    `json:"channel_id"`
	TS        string    `json:"ts"`
	Team      string    `json:"team"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	SeenAt    time.Time `json:"seen_at"`
}

type StoredAction struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	ChannelID string    `json:"channel_id"`
	TS        string    `json:"ts"`
	Team      string    `json:"team"`
	Rule      string    `json:"rule"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ArchiveRepository interface {
	SaveMessage(ctx context.Context, channelID string, msg Message) error
	SaveAction(ctx context.Context, rec ModerationRecord) error
	RecentMessages(ctx context.Context, channelID string, limit int) ([]StoredMessage, error)
	RecentActions(ctx context.Context, limit int) ([]StoredAction, error)
}
