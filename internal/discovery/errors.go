package discovery

import (
	"errors"
	"fmt"
	"net"
	"time"
)

var ErrRateLimited = errors.New("rate limited")

// APIError is a response with "ok": false.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: slack error %q", e.Method, e.Code)
}

// HTTPError is a non-200 status that is not a rate limit.
type HTTPError struct {
	Method     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Method, e.StatusCode)
}

// RateLimitError carries the Retry-After hint of an HTTP 429.
type RateLimitError struct {
	Method string
	After  time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited, retry after %s", e.Method, e.After)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

func (e *RateLimitError) RetryAfter() time.Duration { return e.After }

// isRetryable decides which transport failures are worth another attempt.
func isRetryable(err error) bool {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 500
	}

	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Code == "ratelimited" || ae.Code == "internal_error"
	}

	var ne net.Error
	return errors.As(err, &ne)
}
