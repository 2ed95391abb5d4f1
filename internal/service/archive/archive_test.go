package archive_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/service/archive"
)

type memoryRepo struct {
	mu       sync.Mutex
	messages []string
	actions  []core.ModerationRecord
	saveErr  error
}

func (r *memoryRepo) SaveMessage(_ context.Context, channelID string, msg core.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, core.MessageKey(channelID, msg.TS))
	return r.saveErr
}

func (r *memoryRepo) SaveAction(_ context.Context, rec core.ModerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, rec)
	return nil
}

func (r *memoryRepo) RecentMessages(context.Context, string, int) ([]core.StoredMessage, error) {
	return nil, nil
}

func (r *memoryRepo) RecentActions(context.Context, int) ([]core.StoredAction, error) {
	return nil, nil
}

func (r *memoryRepo) saved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func shutdown(t *testing.T, a *archive.Archiver) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))
}

func TestArchiver_DrainsOnShutdown(t *testing.T) {
	repo := &memoryRepo{}
	a := archive.NewArchiver(repo, 10)

	ctx := context.Background()
	for _, ts := range []string{"100", "200", "300"} {
		a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: ts}})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start(ctx) }()

	shutdown(t, a)
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"C1-100", "C1-200", "C1-300"}, repo.saved())

	// after shutdown events are ignored
	a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: "400"}})
	assert.Len(t, repo.saved(), 3)
	shutdown(t, a)
}

func TestArchiver_DropsWhenFull(t *testing.T) {
	repo := &memoryRepo{}
	a := archive.NewArchiver(repo, 1)

	ctx := context.Background()
	a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: "1"}})
	a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: "2"}})

	go func() { _ = a.Start(ctx) }()
	shutdown(t, a)

	assert.Equal(t, []string{"C1-1"}, repo.saved())
}

func TestArchiver_SaveErrorsDoNotStopTheWriter(t *testing.T) {
	repo := &memoryRepo{saveErr: errors.New("disk I/O error")}
	a := archive.NewArchiver(repo, 0)

	ctx := context.Background()
	go func() { _ = a.Start(ctx) }()

	a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: "1"}})
	a.Handle(ctx, core.MessageEvent{ChannelID: "C1", Message: core.Message{TS: "2"}})
	shutdown(t, a)

	assert.Len(t, repo.saved(), 2)
}

func TestArchiver_RecordAction(t *testing.T) {
	repo := &memoryRepo{}
	a := archive.NewArchiver(repo, 0)

	rec := core.ModerationRecord{Action: core.ActionDelete, ChannelID: "C1", TS: "1", Rule: "secrets"}
	require.NoError(t, a.RecordAction(context.Background(), rec))
	assert.Equal(t, []core.ModerationRecord{rec}, repo.actions)
}
