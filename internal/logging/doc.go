// Package logging provides slog-based logging for podforge with a compact
// console handler, a JSON handler, and helpers for component loggers,
// context-derived fields, and fanning records out to additional sinks such
// as the pipeline's log callback.
package logging
