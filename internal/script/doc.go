// Package script defines the two-host dialogue model: the mode prompt pairs
// sent to the language model, the tolerant parser that recovers dialogue
// turns from free-form model output, and transcript rendering.
package script
