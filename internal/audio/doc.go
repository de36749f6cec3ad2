// Package audio reassembles per-turn synthesized speech into one continuous
// track. Chunks arrive from parallel workers in arbitrary completion order;
// assembly sorts them by turn index and concatenates the PCM payloads with a
// fixed silence gap after every turn.
package audio
