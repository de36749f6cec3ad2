package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"podforge/internal/config"
	"podforge/internal/logging"
)

// newRunLogger builds the logger for a generation run. The "auto" format
// picks console output on a terminal and json otherwise; either way the
// run is mirrored into podforge.log under the configured log directory.
func newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if format == "" || format == "auto" {
		format = "json"
		if isTerminal(os.Stderr) {
			format = "console"
		}
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      format,
		OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "podforge.log")},
	})
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
