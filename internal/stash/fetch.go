package stash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FetchScreenshot downloads the screenshot served at rawURL. The URL comes
// from a scene's paths and is served by the same host, so the client's
// credentials apply. Failures are per-scene and tagged ErrFetch.
func (c *Client) FetchScreenshot(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty screenshot url", ErrFetch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	c.applyHeaders(req)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request (latency=%v): %w", ErrFetch, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: host returned %d (latency=%v)", ErrFetch, resp.StatusCode, latency)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	return data, nil
}
