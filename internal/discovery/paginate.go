package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	MaxPageSize      = 1000
	DefaultPageDelay = 100 * time.Millisecond
)

// Page is one decoded response of a list endpoint.
type Page[T any] struct {
	Items []T
	Next  string
}

// Endpoint describes a paginated list call: where its items live in the
// response and which request parameter takes the continuation token.
type Endpoint[T any] struct {
	Method      string
	CursorParam string
	Decode      func(raw json.RawMessage) (Page[T], error)
}

type PageOptions struct {
	// Limit is clamped to MaxPageSize; zero means MaxPageSize.
	Limit int
	// Delay between consecutive page requests; zero means DefaultPageDelay,
	// a negative value disables the pause.
	Delay time.Duration
	// Sleep replaces the ctx-aware timer, mainly for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o PageOptions) limit() int {
	if o.Limit <= 0 || o.Limit > MaxPageSize {
		return MaxPageSize
	}
	return o.Limit
}

func (o PageOptions) delay() time.Duration {
	switch {
	case o.Delay < 0:
		return 0
	case o.Delay == 0:
		return DefaultPageDelay
	}
	return o.Delay
}

func (o PageOptions) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Paginate collects every item of ep, following the continuation token
// until it is empty or a page comes back without items. Later pages keep
// the initial params; only the cursor parameter changes. Any failed page
// fails the whole traversal and earlier pages are dropped.
func Paginate[T any](ctx context.Context, caller Caller, ep Endpoint[T], params Params, opts PageOptions) ([]T, error) {
	call := params.With(Params{"limit": strconv.Itoa(opts.limit())})
	results := make([]T, 0)

	for page := 1; ; page++ {
		raw, err := caller.Call(ctx, ep.Method, call)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", ep.Method, page, err)
		}

		p, err := ep.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: decode: %w", ep.Method, page, err)
		}

		results = append(results, p.Items...)
		if len(p.Items) == 0 || p.Next == "" {
			return results, nil
		}

		if d := opts.delay(); d > 0 {
			if err := opts.sleep(ctx, d); err != nil {
				return nil, err
			}
		}
		call = call.With(Params{ep.CursorParam: p.Next})
	}
}

// decodeWith builds a Decode func from a response type and an extractor.
func decodeWith[R any, T any](extract func(R) Page[T]) func(json.RawMessage) (Page[T], error) {
	return func(raw json.RawMessage) (Page[T], error) {
		var r R
		if err := json.Unmarshal(raw, &r); err != nil {
			return Page[T]{}, err
		}
		return extract(r), nil
	}
}

// token accepts continuation values sent either as JSON strings or numbers.
type token string

func (t *token) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = token(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("continuation token: %w", err)
	}
	*t = token(n.String())
	return nil
}
