package speech

import (
	"bytes"
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

func fakeAudio(size int) []byte {
	return bytes.Repeat([]byte{0xAB}, size)
}

func TestSynthesizeSendsExpectedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var payload struct {
			Model          string `json:"model"`
			Input          string `json:"input"`
			Voice          string `json:"voice"`
			ResponseFormat string `json:"response_format"`
			Stream         bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "demo-tts" || payload.Input != "Hello there" || payload.Voice != "demo-tts:alex" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if payload.ResponseFormat != "wav" || payload.Stream {
			t.Fatalf("unexpected format settings: %+v", payload)
		}
		_, _ = w.Write(fakeAudio(512))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL, Model: "demo-tts", Format: "wav"},
		WithRetryPolicy(noWaitPolicy()))
	audio, err := client.Synthesize(context.Background(), "Hello there", "demo-tts:alex")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(audio) != 512 {
		t.Fatalf("unexpected audio length: %d", len(audio))
	}
}

func TestSynthesizeRetriesTinyResponse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(noWaitPolicy()))
	_, err := client.Synthesize(context.Background(), "hello", "m:alex")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error for tiny payload, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestSynthesizeRecoversAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(fakeAudio(256))
	}))
	defer server.Close()

	var waits []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(services.RetryPolicy{Sleeper: func(d time.Duration) { waits = append(waits, d) }}))
	audio, err := client.Synthesize(context.Background(), "hello", "m:alex")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(audio) != 256 {
		t.Fatalf("unexpected audio length: %d", len(audio))
	}
	if len(waits) != 1 || waits[0] != 2*time.Second {
		t.Fatalf("expected single 2s rate-limit wait, got %v", waits)
	}
}

func TestSynthesizeDoesNotRetryBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"unknown voice"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithRetryPolicy(noWaitPolicy()))
	_, err := client.Synthesize(context.Background(), "hello", "m:ghost")
	if !errors.Is(err, services.ErrBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single request, got %d", calls.Load())
	}
}

func TestSynthesizeValidatesInput(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused", Model: "m"})
	if _, err := client.Synthesize(context.Background(), "hello", "m:alex"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for missing key, got %v", err)
	}

	client = NewClient(Config{APIKey: "k", BaseURL: "http://unused", Model: "m"})
	if _, err := client.Synthesize(context.Background(), "   ", "m:alex"); !errors.Is(err, services.ErrBadRequest) {
		t.Fatalf("expected bad request for blank text, got %v", err)
	}
}
