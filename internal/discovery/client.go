package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/metrics"
	"github.com/sandevgo/slackwatch/pkg/log"
	"github.com/sandevgo/slackwatch/pkg/retry"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://slack.com/api/"
	defaultRetryAfter = 30 * time.Second
	maxResponseBytes  = 32 << 20
)

// Caller performs one authenticated Discovery API call and returns the raw
// JSON body of a successful ("ok": true) response.
type Caller interface {
	Call(ctx context.Context, method string, params Params) (json.RawMessage, error)
}

type ClientOptions struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
	HTTPClient        *http.Client
}

// Client is the HTTP implementation of Caller.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	retrier *retry.Retrier
}

func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, core.ErrMissingCredential
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	retryCfg := retry.NewDefaultConfig()
	retryCfg.MaxRetries = opts.MaxRetries
	retryCfg.Retryable = isRetryable

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   opts.Token,
		limiter: limiter,
		retrier: retry.NewRetrier(retryCfg),
	}, nil
}

func (c *Client) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	var body json.RawMessage
	err := c.retrier.Do(ctx, func() error {
		var err error
		body, err = c.call(ctx, method, params)
		metrics.RecordAPICall(method, err)
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Str("method", method).Msg("discovery call failed")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Method: method, After: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode != http.StatusOK:
		return nil, &HTTPError{Method: method, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read body: %w", method, err)
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%s: invalid response: %w", method, err)
	}
	if !envelope.OK {
		return nil, &APIError{Method: method, Code: envelope.Error}
	}

	return raw, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
