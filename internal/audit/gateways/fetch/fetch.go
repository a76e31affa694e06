// Package fetch downloads raw blocklist content over HTTP. It is a
// thin collaborator: callers decide what a failed download means.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Some list hosts reject unknown clients, so identify as a generic browser.
const userAgent = "Mozilla/5.0"

// Client downloads list content with a fixed per-request timeout.
type Client struct {
	http *http.Client
}

// New returns a Client with the given request timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch performs a GET and returns the response body on any 2xx status.
// Non-2xx statuses and transport errors are returned as errors, never
// folded into empty content.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body from %s: %w", url, err)
	}
	return string(body), nil
}
