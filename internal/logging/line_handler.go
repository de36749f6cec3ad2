package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LineFunc receives one rendered log line without a trailing newline.
type LineFunc func(line string)

// lineHandler renders records into compact single lines and forwards them to a
// callback. Calls are serialized so concurrent workers cannot interleave output.
type lineHandler struct {
	mu    sync.Mutex
	fn    LineFunc
	level slog.Level
	attrs []slog.Attr
}

// NewLineHandler builds a handler that forwards rendered lines to fn.
// Records below minLevel are dropped.
func NewLineHandler(fn LineFunc, minLevel slog.Level) slog.Handler {
	if fn == nil {
		return NoopHandler{}
	}
	return &lineHandler{fn: fn, level: minLevel}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, nil, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, nil, attr)
		return true
	})

	var b strings.Builder
	b.Grow(64 + len(kvs)*16)
	b.WriteString(levelLabel(record.Level))
	b.WriteByte(' ')
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	for _, kv := range kvs {
		if kv.key == "" || kv.key == FieldComponent {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(formatValue(kv.value))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn(b.String())
	return nil
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &lineHandler{fn: h.fn, level: h.level}
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return clone
}

func (h *lineHandler) WithGroup(string) slog.Handler {
	return h
}
