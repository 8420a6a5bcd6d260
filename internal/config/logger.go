package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger sets the global zerolog level from LOG_LEVEL and points the
// global logger at w. A nil w disables logging.
func SetupLogger(w io.Writer) error {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(GetEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		return fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	if w == nil {
		log.Logger = zerolog.Nop()
		return nil
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// OpenLogFile opens path for appending log lines. An empty path returns a
// nil writer, meaning no logging.
func OpenLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
