package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"podforge/internal/services"
)

func noWaitPolicy() services.RetryPolicy {
	return services.RetryPolicy{Sleeper: func(time.Duration) {}}
}

func TestCompleteSendsExpectedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "demo-model" {
			t.Fatalf("unexpected model: %q", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Role != "user" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		if payload.Temperature != 0.7 || payload.MaxTokens != 2048 {
			t.Fatalf("unexpected generation settings: %+v", payload)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": "generated text"}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL, Model: "demo-model"},
		WithRetryPolicy(noWaitPolicy()))
	out, err := client.Complete(context.Background(), Request{
		System:      "be helpful",
		User:        "summarize this",
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "generated text" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCompleteRetriesEmptyChoices(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "second try"}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(noWaitPolicy()))
	out, err := client.Complete(context.Background(), Request{User: "hello"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "second try" {
		t.Fatalf("unexpected output: %q", out)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
}

func TestCompleteDoesNotRetryUnauthorized(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(noWaitPolicy()))
	_, err := client.Complete(context.Background(), Request{User: "hello"})
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single request, got %d", calls.Load())
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer server.Close()

	var waits []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(services.RetryPolicy{Sleeper: func(d time.Duration) { waits = append(waits, d) }}))
	out, err := client.Complete(context.Background(), Request{User: "hello"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(waits) != 1 || waits[0] != 2*time.Second {
		t.Fatalf("expected single 2s rate-limit wait, got %v", waits)
	}
}

func TestCompleteRequiresAPIKeyAndContent(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused", Model: "m"})
	if _, err := client.Complete(context.Background(), Request{User: "hi"}); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for missing key, got %v", err)
	}

	client = NewClient(Config{APIKey: "k", BaseURL: "http://unused", Model: "m"})
	if _, err := client.Complete(context.Background(), Request{}); !errors.Is(err, services.ErrBadRequest) {
		t.Fatalf("expected bad request for empty content, got %v", err)
	}
}
