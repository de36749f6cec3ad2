// Package config loads, normalizes, and validates the podforge TOML
// configuration.
package config
