package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
	}
}

type hintErr struct{ after time.Duration }

func (e hintErr) Error() string              { return "slow down" }
func (e hintErr) RetryAfter() time.Duration { return e.after }

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		counter++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counter)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	counter := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		counter++
		if counter < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, counter)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	expectedErr := errors.New("permanent error")
	counter := 0
	err := NewRetrier(fastConfig(2)).Do(context.Background(), func() error {
		counter++
		return expectedErr
	})

	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, counter) // initial try + 2 retries
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("invalid_auth")
	cfg := fastConfig(5)
	cfg.Retryable = func(err error) bool { return !errors.Is(err, fatal) }

	counter := 0
	err := NewRetrier(cfg).Do(context.Background(), func() error {
		counter++
		return fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, counter)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second

	err := NewRetrier(cfg).Do(ctx, func() error {
		cancel()
		return errors.New("operation error after cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_DelayHintIsHonoured(t *testing.T) {
	cfg := fastConfig(1)
	counter := 0

	start := time.Now()
	err := NewRetrier(cfg).Do(context.Background(), func() error {
		counter++
		if counter == 1 {
			return hintErr{after: 30 * time.Millisecond}
		}
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
