package reader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"podforge/internal/logging"
	"podforge/internal/services"
)

const (
	defaultBaseURL     = "https://r.jina.ai"
	defaultHTTPTimeout = 20 * time.Second
	userAgent          = "Mozilla/5.0"

	// The reader service answers 200 with this marker in the body when it is
	// overloaded. Treated the same as a transient failure.
	busyMarker = "High volume"
)

// Client fetches extracted article text for a URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      services.RetryPolicy
	logger     *slog.Logger
}

// Option customizes the reader client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the reader endpoint (useful for tests).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithRetryPolicy overrides the retry behavior.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithLogger attaches a logger for per-attempt events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a reader client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch retrieves the extracted text of the page at pageURL. Transient
// failures and busy responses are retried; exhaustion or a terminal status
// is returned as an error.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", services.Wrap(services.ErrBadRequest, "reader", "fetch", "url required", nil)
	}

	var text string
	err := c.retry.Do(ctx, c.logger, "reader fetch", func(attempt int) error {
		body, err := c.fetchOnce(ctx, pageURL)
		if err != nil {
			return err
		}
		text = body
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (string, error) {
	endpoint := c.baseURL + "/" + pageURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", services.Wrap(services.ErrBadRequest, "reader", "fetch", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.ClassifyTransport("reader", "fetch", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.ClassifyTransport("reader", "fetch", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.StatusError("reader", "fetch", resp.StatusCode, string(body))
	}

	text := string(body)
	if strings.TrimSpace(text) == "" || strings.Contains(text, busyMarker) {
		return "", services.Wrap(services.ErrTransient, "reader", "fetch", "service busy", errBusy)
	}
	return text, nil
}

var errBusy = errors.New("empty or busy response body")
