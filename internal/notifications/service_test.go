package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"podforge/internal/notifications"
	"podforge/internal/pipeline"
	"podforge/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifyRunStarted(context.Background(), 3, "deep-dive"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	var captured struct {
		title    string
		tags     string
		priority string
		body     string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	t.Run("run started", func(t *testing.T) {
		if err := svc.NotifyRunStarted(context.Background(), 3, "news-brief"); err != nil {
			t.Fatalf("notification returned error: %v", err)
		}
		if captured.title != "Podforge - Run Started" {
			t.Fatalf("unexpected title: %q", captured.title)
		}
		if captured.body != "Generating news-brief podcast from 3 articles" {
			t.Fatalf("unexpected message: %q", captured.body)
		}
		if captured.tags != "podforge,run,started" {
			t.Fatalf("unexpected tags: %q", captured.tags)
		}
	})

	t.Run("run completed", func(t *testing.T) {
		stats := pipeline.Stats{TotalURLs: 3, Fetched: 2, Analyzed: 2, ScriptLines: 10, AudioChunks: 9}
		if err := svc.NotifyRunCompleted(context.Background(), "Daily Brief", stats, 95*time.Second); err != nil {
			t.Fatalf("notification returned error: %v", err)
		}
		if captured.title != "Podforge - Episode Complete" {
			t.Fatalf("unexpected title: %q", captured.title)
		}
		want := "Episode ready: Daily Brief\n2/3 articles, 10 lines, 9 audio segments in 1m35s"
		if captured.body != want {
			t.Fatalf("expected message %q, got %q", want, captured.body)
		}
		if captured.priority != "high" {
			t.Fatalf("expected high priority, got %q", captured.priority)
		}
	})

	t.Run("run failed", func(t *testing.T) {
		if err := svc.NotifyRunFailed(context.Background(), "all content fetches failed"); err != nil {
			t.Fatalf("notification returned error: %v", err)
		}
		if captured.title != "Podforge - Run Failed" {
			t.Fatalf("unexpected title: %q", captured.title)
		}
		if captured.body != "Generation failed: all content fetches failed" {
			t.Fatalf("unexpected message: %q", captured.body)
		}
		if captured.tags != "podforge,error,alert" {
			t.Fatalf("unexpected tags: %q", captured.tags)
		}
	})
}

func TestNtfyServiceHonorsToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.Runs = false
	cfg.Notifications.Errors = false
	svc := notifications.NewService(cfg)

	ctx := context.Background()
	if err := svc.NotifyRunStarted(ctx, 1, "deep-dive"); err != nil {
		t.Fatalf("expected suppressed run event, got %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "x", pipeline.Stats{}, time.Second); err != nil {
		t.Fatalf("expected suppressed run event, got %v", err)
	}
	if err := svc.NotifyRunFailed(ctx, "boom"); err != nil {
		t.Fatalf("expected suppressed error event, got %v", err)
	}
}
