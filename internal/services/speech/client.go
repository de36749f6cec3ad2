package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"podforge/internal/logging"
	"podforge/internal/services"
)

const (
	defaultBaseURL     = "https://api.siliconflow.cn/v1/audio/speech"
	defaultHTTPTimeout = 60 * time.Second

	// Successful responses smaller than this cannot be real audio; some
	// providers return a tiny error document with a 200 status.
	minAudioBytes = 100
)

// Config captures the runtime settings required to talk to the TTS service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Format         string
	TimeoutSeconds int
}

// Client wraps the speech synthesis API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      services.RetryPolicy
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
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

// NewClient constructs a speech client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Format:         strings.TrimSpace(cfg.Format),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Format == "" {
		client.cfg.Format = "wav"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Synthesize converts text to speech with the given voice and returns the
// raw audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrUnauthorized, "speech", "synthesize", "api key required", nil)
	}
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrBadRequest, "speech", "synthesize", "text required", nil)
	}

	payload := speechRequest{
		Model:          c.cfg.Model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: c.cfg.Format,
		Stream:         false,
	}

	var audio []byte
	err := c.retry.Do(ctx, c.logger, "speech synthesize", func(attempt int) error {
		out, err := c.synthesizeOnce(ctx, payload)
		if err != nil {
			return err
		}
		audio = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return audio, nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
	Stream         bool   `json:"stream"`
}

func (c *Client) synthesizeOnce(ctx context.Context, payload speechRequest) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrBadRequest, "speech", "synthesize", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrBadRequest, "speech", "synthesize", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.ClassifyTransport("speech", "synthesize", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.ClassifyTransport("speech", "synthesize", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.StatusError("speech", "synthesize", resp.StatusCode, string(body))
	}
	if len(body) < minAudioBytes {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize",
			fmt.Sprintf("implausibly small audio payload (%d bytes)", len(body)), nil)
	}
	return body, nil
}
