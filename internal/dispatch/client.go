package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opsdesk/instascrape/internal/domain"
)

const maxMessageLen = 300

// Options pins the webhook contract. The automation engine's expectations
// around header naming and payload shape have drifted, so both are explicit
// instead of hardcoded.
type Options struct {
	URL          string
	APIKey       string
	APIKeyHeader string
	PayloadShape string // "single" or "batch"
	Timeout      time.Duration
}

// Client triggers the external scrape workflow over HTTPS. One POST per
// account, no retries; failures are values, not errors, so a batch can
// keep going past a bad account.
type Client struct {
	http *resty.Client
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = "X-API-KEY"
	}
	if opts.PayloadShape == "" {
		opts.PayloadShape = "single"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader(opts.APIKeyHeader, opts.APIKey)
	return &Client{http: client, opts: opts}
}

// Send fires a single webhook trigger. ok is true only for HTTP 200; any
// other status or a transport error carries a human-readable message with
// the (truncated) response body.
func (c *Client) Send(ctx context.Context, username string, posts int) domain.DispatchResult {
	var body any
	if c.opts.PayloadShape == "batch" {
		body = map[string]any{"accounts": []string{username}, "posts": posts}
	} else {
		body = map[string]any{"username": username, "posts": posts}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.opts.URL)
	if err != nil {
		return domain.DispatchResult{
			Username: username,
			Message:  fmt.Sprintf("webhook request failed: %s", err),
		}
	}
	if resp.StatusCode() != 200 {
		return domain.DispatchResult{
			Username: username,
			Message:  fmt.Sprintf("webhook returned %d: %s", resp.StatusCode(), truncate(resp.String())),
		}
	}
	return domain.DispatchResult{Username: username, OK: true, Message: "accepted"}
}

// All dispatches every account in input order. Partial success is the
// norm: a failed account never stops the ones after it.
func All(ctx context.Context, d domain.Dispatcher, req domain.ScrapeRequest) []domain.DispatchResult {
	results := make([]domain.DispatchResult, 0, len(req.Usernames))
	for _, u := range req.Usernames {
		results = append(results, d.Send(ctx, u, req.Posts))
	}
	return results
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxMessageLen {
		return s[:maxMessageLen] + "…"
	}
	return s
}
