package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDoStopsAfterAttemptBudget(t *testing.T) {
	var waits []time.Duration
	policy := RetryPolicy{Sleeper: func(d time.Duration) { waits = append(waits, d) }}

	calls := 0
	err := policy.Do(context.Background(), nil, "demo", func(attempt int) error {
		calls++
		if attempt != calls {
			t.Fatalf("attempt %d reported as %d", calls, attempt)
		}
		return Wrap(ErrTransient, "svc", "op", "boom", nil)
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 waits, got %v", waits)
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Fatalf("unexpected error message: %v", err)
	}
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected last failure preserved: %v", err)
	}
}

func TestDoTerminalFailureStopsImmediately(t *testing.T) {
	policy := RetryPolicy{Sleeper: func(time.Duration) { t.Fatal("terminal failure must not wait") }}

	calls := 0
	err := policy.Do(context.Background(), nil, "demo", func(int) error {
		calls++
		return Wrap(ErrUnauthorized, "svc", "op", "bad key", nil)
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestDoRateLimitBackoffGrowsWithAttempt(t *testing.T) {
	var waits []time.Duration
	policy := RetryPolicy{Sleeper: func(d time.Duration) { waits = append(waits, d) }}

	_ = policy.Do(context.Background(), nil, "demo", func(int) error {
		return Wrap(ErrRateLimited, "svc", "op", "throttled", nil)
	})

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), waits)
	}
	for i, d := range want {
		if waits[i] != d {
			t.Fatalf("wait %d: got %v want %v", i, waits[i], d)
		}
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	policy := RetryPolicy{Sleeper: func(time.Duration) {}}

	calls := 0
	err := policy.Do(context.Background(), nil, "demo", func(int) error {
		calls++
		if calls < 3 {
			return Wrap(ErrTimeout, "svc", "op", "slow", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Sleeper: func(time.Duration) { cancel() }}

	err := policy.Do(ctx, nil, "demo", func(int) error {
		return Wrap(ErrTransient, "svc", "op", "boom", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
