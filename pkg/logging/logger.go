// Package logging wraps zerolog for votekit. The process-wide logger is
// configured from the environment at startup and replaced by the CLI once
// flags are parsed; library code reads it through FromContext.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var current = NewLoggerFromConfig(envConfig())

// envConfig mirrors the LOG_* variables the CLI also understands.
func envConfig() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	return cfg
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &current
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger so third-party callers of the log package follow suit.
func SetDefault(logger zerolog.Logger) {
	current = logger
	log.Logger = logger
}
