// Package logging builds the process logger.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewLogger creates a console logger at level writing to w. Every entry carries the
// given run id so the lines of one invocation can be told apart.
func NewLogger(w io.Writer, level zerolog.Level, runID string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("run", runID).
		Logger()
}

// NewRunID returns a fresh random run id.
func NewRunID() string {
	return uuid.NewString()
}
