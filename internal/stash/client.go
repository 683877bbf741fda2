package stash

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const userAgent = "stashsweep/0.1.0"

// Client provides access to a Stash server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Library defines the Stash operations a sweep requires.
type Library interface {
	FindScenes(ctx context.Context) (*SceneList, error)
	FetchScreenshot(ctx context.Context, url string) ([]byte, error)
	ReplaceScreenshot(ctx context.Context, sceneID string, image []byte, filename string) error
}

var _ Library = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the client in use.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a Stash client. The API key may be empty when the server runs
// without authentication.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("stash base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL reports the normalized endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) applyHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}
	req.Header.Set("User-Agent", userAgent)
}
