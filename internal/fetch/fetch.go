// Package fetch wraps net/http with bounded retries and per-attempt timeouts.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultMaxAttempts is 1 initial call plus 2 retries.
	DefaultMaxAttempts = 3

	// DefaultTimeout bounds each individual attempt.
	DefaultTimeout = 8 * time.Second
)

// Client is a retrying HTTP client. Attempts are immediate, with no backoff
// between them.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	timeout     time.Duration
	userAgent   string
}

// New creates a Client. Zero values fall back to the defaults.
func New(maxAttempts int, timeout time.Duration) *Client {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{},
		maxAttempts: maxAttempts,
		timeout:     timeout,
		userAgent:   "ridecomparison/1.0",
	}
}

// GetJSON fetches url and decodes the response body into out, retrying up
// to the configured attempt count. On final failure it returns the last
// underlying error.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.getJSONOnce(ctx, url, out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) getJSONOnce(ctx context.Context, url string, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
