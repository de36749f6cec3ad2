// Package pipeline sequences the five stages that turn a list of article
// URLs into a two-host podcast: parallel content fetch, parallel analysis,
// a single script-writing call, parallel speech synthesis, and ordered
// audio assembly.
//
// Failures travel as values. A fetch or analysis that exhausts its retries
// leaves an absent slot behind and the run continues on the survivors; the
// run only fails outright when a whole stage comes up empty before the
// script exists. Speech-synthesis failures degrade the result to
// text-only instead of failing it.
package pipeline
