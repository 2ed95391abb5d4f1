// Package discoverytest provides a scripted discovery.Caller for tests.
package discoverytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sandevgo/slackwatch/internal/discovery"
)

// Response is one scripted reply. Err takes precedence over Body.
type Response struct {
	Body string
	Err  error
}

type HandlerFunc func(params discovery.Params) (string, error)

type Call struct {
	Method string
	Params discovery.Params
}

// Caller replays queued responses per method, or delegates to a handler.
type Caller struct {
	mu       sync.Mutex
	queues   map[string][]Response
	handlers map[string]HandlerFunc
	calls    []Call
}

var _ discovery.Caller = (*Caller)(nil)

func NewCaller() *Caller {
	return &Caller{
		queues:   make(map[string][]Response),
		handlers: make(map[string]HandlerFunc),
	}
}

// Queue appends responses for method, consumed in order.
func (c *Caller) Queue(method string, responses ...Response) *Caller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues[method] = append(c.queues[method], responses...)
	return c
}

// Handle answers every call of method with fn once its queue is empty.
func (c *Caller) Handle(method string, fn HandlerFunc) *Caller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[method] = fn
	return c
}

func (c *Caller) Call(ctx context.Context, method string, params discovery.Params) (json.RawMessage, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{Method: method, Params: params.With(nil)})

	var (
		resp    Response
		handled bool
	)
	if q := c.queues[method]; len(q) > 0 {
		resp, c.queues[method], handled = q[0], q[1:], true
	}
	fn := c.handlers[method]
	c.mu.Unlock()

	if !handled {
		if fn == nil {
			return nil, fmt.Errorf("discoverytest: unexpected call to %s", method)
		}
		resp.Body, resp.Err = fn(params)
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return json.RawMessage(resp.Body), nil
}

// Calls returns the recorded calls of method, or all calls when method is empty.
func (c *Caller) Calls(method string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Call
	for _, call := range c.calls {
		if method == "" || call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

// OK wraps a JSON object body with "ok": true.
func OK(fields string) string {
	if fields == "" {
		return `{"ok":true}`
	}
	return `{"ok":true,` + fields + `}`
}
