// Package main hosts the podforge CLI entrypoint and command graph.
//
// The Cobra-based command tree wires the generation pipeline, the episode
// library, and configuration scaffolding into terminal commands. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
