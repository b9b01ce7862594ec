// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// DefaultOutputFile is the binary output file name if none is given.
const DefaultOutputFile = "output.bin"

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
