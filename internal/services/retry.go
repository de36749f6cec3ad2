package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultMaxAttempts   = 3
	defaultRetryDelay    = 1 * time.Second
	defaultRateLimitBase = 2 * time.Second
	defaultRateLimitStep = 2 * time.Second
)

// RetryPolicy bounds how remote calls are reattempted. The zero value uses
// the repository defaults: 3 attempts, 1s pause after ordinary transient
// failures, and a rate-limit wait that grows with the attempt number.
type RetryPolicy struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	RateLimitBase time.Duration
	RateLimitStep time.Duration

	// Sleeper overrides how waits are performed. Tests use this to avoid
	// real sleeps.
	Sleeper func(time.Duration)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delayFor(err error, attempt int) time.Duration {
	if RateLimited(err) {
		base := p.RateLimitBase
		if base <= 0 {
			base = defaultRateLimitBase
		}
		step := p.RateLimitStep
		if step <= 0 {
			step = defaultRateLimitStep
		}
		return base + time.Duration(attempt-1)*step
	}
	if p.RetryDelay > 0 {
		return p.RetryDelay
	}
	return defaultRetryDelay
}

// Do invokes op until it succeeds, the attempt budget runs out, or a terminal
// failure class appears. Every attempt outcome is logged so the pipeline's
// event stream can surface retry activity.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, operation string, op func(attempt int) error) error {
	if logger == nil {
		logger = slog.New(noopRetryHandler{})
	}
	attempts := p.attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Debug("retry succeeded",
					slog.String("operation", operation),
					slog.Int("attempt", attempt))
			}
			return nil
		}
		lastErr = err
		if !Retryable(err) {
			logger.Warn("terminal failure",
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		if attempt == attempts {
			break
		}
		delay := p.delayFor(err, attempt)
		logger.Warn("transient failure, retrying",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Duration("wait", delay),
			slog.Any("error", err))
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", operation, attempts, lastErr)
}

func (p RetryPolicy) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if p.Sleeper != nil {
		p.Sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopRetryHandler struct{}

func (noopRetryHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopRetryHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopRetryHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopRetryHandler{} }
func (noopRetryHandler) WithGroup(string) slog.Handler             { return noopRetryHandler{} }
