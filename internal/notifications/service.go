package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"podforge/internal/config"
	"podforge/internal/pipeline"
)

const userAgent = "Podforge/0.1.0"

// Service defines the notification surface exposed to the generate flow.
type Service interface {
	NotifyRunStarted(ctx context.Context, urls int, mode string) error
	NotifyRunCompleted(ctx context.Context, title string, stats pipeline.Stats, duration time.Duration) error
	NotifyRunFailed(ctx context.Context, message string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		sendRuns:   cfg.Notifications.Runs,
		sendErrors: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	sendRuns   bool
	sendErrors bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, urls int, mode string) error {
	if !n.sendRuns {
		return nil
	}
	data := payload{
		title:   "Podforge - Run Started",
		message: fmt.Sprintf("Generating %s podcast from %d articles", mode, urls),
		tags:    []string{"podforge", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, title string, stats pipeline.Stats, duration time.Duration) error {
	if !n.sendRuns {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Episode ready: %s\n", strings.TrimSpace(title))
	fmt.Fprintf(&b, "%d/%d articles, %d lines", stats.Analyzed, stats.TotalURLs, stats.ScriptLines)
	if stats.AudioChunks > 0 {
		fmt.Fprintf(&b, ", %d audio segments", stats.AudioChunks)
	} else {
		b.WriteString(", text only")
	}
	fmt.Fprintf(&b, " in %s", duration)

	data := payload{
		title:    "Podforge - Episode Complete",
		message:  b.String(),
		tags:     []string{"podforge", "run", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, message string) error {
	if !n.sendErrors {
		return nil
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown"
	}
	data := payload{
		title:    "Podforge - Run Failed",
		message:  "Generation failed: " + message,
		tags:     []string{"podforge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Podforge - Test",
		message:  "Notification system test",
		tags:     []string{"podforge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, int, string) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, pipeline.Stats, time.Duration) error {
	return nil
}
func (noopService) NotifyRunFailed(context.Context, string) error { return nil }
func (noopService) TestNotification(context.Context) error        { return nil }
