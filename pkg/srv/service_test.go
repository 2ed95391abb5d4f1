package srv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingService struct {
	name     string
	startErr error
	mu       *sync.Mutex
	order    *[]string
}

func (r *recordingService) Start(ctx context.Context) error {
	return r.startErr
}

func (r *recordingService) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	return ctx.Err()
}

func TestShutdownServices_ReverseOrderWithLiveContext(t *testing.T) {
	var mu sync.Mutex
	var order []string
	services := []Service{
		&recordingService{name: "db", mu: &mu, order: &order},
		&recordingService{name: "listener", mu: &mu, order: &order},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"listener", "db"}, order)
}

func TestStartServices_FailureStopsProcess(t *testing.T) {
	var mu sync.Mutex
	var order []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := StartServices(ctx, []Service{
		&recordingService{name: "broken", startErr: errors.New("boom"), mu: &mu, order: &order},
	}, cancel)
	wg.Wait()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestCleanup_RunsOnShutdown(t *testing.T) {
	called := false
	svc := NewCleanup(func() error {
		called = true
		return nil
	})

	assert.NoError(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, called)
}
