package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrTransient marks failures worth retrying: connection errors and 5xx responses.
	ErrTransient = errors.New("transient failure")
	// ErrTimeout marks a request that exceeded its deadline. Retryable.
	ErrTimeout = errors.New("timeout")
	// ErrRateLimited marks an explicit rate-limit signal from the remote service. Retryable with backoff.
	ErrRateLimited = errors.New("rate limited")
	// ErrBadRequest marks a malformed-request rejection. Never retried.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized marks an authentication rejection. Never retried.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound marks a missing remote resource. Never retried.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later retry classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// StatusError tags a failure with the sentinel matching an HTTP status class.
func StatusError(component, operation string, status int, body string) error {
	marker := ErrTransient
	switch {
	case status == http.StatusTooManyRequests:
		marker = ErrRateLimited
	case status == http.StatusBadRequest:
		marker = ErrBadRequest
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		marker = ErrUnauthorized
	case status == http.StatusNotFound:
		marker = ErrNotFound
	case status == http.StatusRequestTimeout:
		marker = ErrTimeout
	case status >= http.StatusInternalServerError:
		marker = ErrTransient
	case status >= http.StatusBadRequest:
		// Remaining 4xx responses cannot succeed on retry.
		marker = ErrBadRequest
	}
	body = strings.TrimSpace(body)
	if len(body) > 300 {
		body = body[:300]
	}
	return Wrap(marker, component, operation, fmt.Sprintf("http %d: %s", status, body), nil)
}

// Retryable reports whether err belongs to a failure class worth another attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimited) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Connection refused, reset, DNS hiccups. Anything the transport
		// reported without a response is worth one more try.
		return true
	}
	return false
}

// RateLimited reports whether err carries an explicit rate-limit signal.
func RateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// ClassifyTransport converts a raw HTTP transport error into the taxonomy.
func ClassifyTransport(component, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(ErrTimeout, component, operation, "", err)
	}
	return Wrap(ErrTransient, component, operation, "", err)
}

// ParseRetryAfter interprets a Retry-After header value as a wait duration.
func ParseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	var seconds int
	if _, err := fmt.Sscanf(value, "%d", &seconds); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}
