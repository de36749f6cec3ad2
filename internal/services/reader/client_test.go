package reader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"podforge/internal/services"
)

func noWaitPolicy() services.RetryPolicy {
	return services.RetryPolicy{Sleeper: func(time.Duration) {}}
}

func TestFetchReturnsArticleBody(t *testing.T) {
	const article = "Title: Example\n\nBody text of the article."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Mozilla/5.0" {
			t.Fatalf("unexpected user agent: %q", got)
		}
		if !strings.HasPrefix(r.URL.Path, "/https://example.com/post") {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(article))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRetryPolicy(noWaitPolicy()))
	text, err := client.Fetch(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if text != article {
		t.Fatalf("unexpected body: %q", text)
	}
}

func TestFetchRetriesBusyResponse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			_, _ = w.Write([]byte("High volume, please retry later"))
			return
		}
		_, _ = w.Write([]byte("actual article text"))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRetryPolicy(noWaitPolicy()))
	text, err := client.Fetch(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if text != "actual article text" {
		t.Fatalf("unexpected body: %q", text)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
}

func TestFetchRetriesEmptyBodyUntilExhaustion(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRetryPolicy(noWaitPolicy()))
	_, err := client.Fetch(context.Background(), "https://example.com/a")
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such page", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRetryPolicy(noWaitPolicy()))
	_, err := client.Fetch(context.Background(), "https://example.com/missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single request, got %d", calls.Load())
	}
}

func TestFetchRejectsEmptyURL(t *testing.T) {
	client := NewClient(WithRetryPolicy(noWaitPolicy()))
	_, err := client.Fetch(context.Background(), "  ")
	if !errors.Is(err, services.ErrBadRequest) {
		t.Fatalf("expected bad-request error, got %v", err)
	}
}
