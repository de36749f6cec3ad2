// Package chat wraps an OpenAI-compatible chat completion API used for
// article analysis and script writing.
package chat
