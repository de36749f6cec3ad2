// Package speech wraps a text-to-speech synthesis API that returns raw
// audio bytes for a single utterance.
package speech
