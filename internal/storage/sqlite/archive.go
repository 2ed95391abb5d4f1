package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/pkg/log"
)

const defaultListLimit = 50

// ArchiveRepo stores delivered messages and the moderation action log.
type ArchiveRepo struct {
	db  *sql.DB
	now func() time.Time
}

var _ core.ArchiveRepository = (*ArchiveRepo)(nil)

func NewArchiveRepo(db *sql.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db, now: time.Now}
}

// SaveMessage stores msg once; saving the same channel and ts again is a no-op.
func (r *ArchiveRepo) SaveMessage(ctx context.Context, channelID string, msg core.Message) error {
	query := `INSERT OR IGNORE INTO messages (channel_id, ts, team, user_id, text, seen_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, channelID, msg.TS, msg.Team, msg.User, msg.Text, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *ArchiveRepo) SaveAction(ctx context.Context, rec core.ModerationRecord) error {
	var errText string
	if rec.Err != nil {
		errText = rec.Err.Error()
	}

	at := rec.At
	if at.IsZero() {
		at = r.now()
	}

	query := `INSERT INTO moderation_actions (action, channel_id, ts, team, rule, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, string(rec.Action), rec.ChannelID, rec.TS, rec.Team, rec.Rule, errText, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert moderation action: %w", err)
	}
	return nil
}

// RecentMessages returns the newest messages first. An empty channelID
// lists every channel.
func (r *ArchiveRepo) RecentMessages(ctx context.Context, channelID string, limit int) ([]core.StoredMessage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, channel_id, ts, team, user_id, text, seen_at FROM messages`
	args := []any{}
	if channelID != "" {
		query += ` WHERE channel_id = ?`
		args = append(args, channelID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.StoredMessage
	for rows.Next() {
		var m core.StoredMessage
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.TS, &m.Team, &m.User, &m.Text, &m.SeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded archived messages")
	return messages, nil
}

// RecentActions returns the newest moderation actions first.
func (r *ArchiveRepo) RecentActions(ctx context.Context, limit int) ([]core.StoredAction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, action, channel_id, ts, team, rule, error, created_at FROM moderation_actions ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moderation actions: %w", err)
	}
	defer rows.Close()

	var actions []core.StoredAction
	for rows.Next() {
		var a core.StoredAction
		if err := rows.Scan(&a.ID, &a.Action, &a.ChannelID, &a.TS, &a.Team, &a.Rule, &a.Error, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan moderation action: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}
