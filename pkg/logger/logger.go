// Package logger defines the minimal logging surface used across the SDK,
// with a zerolog-backed default implementation and a log/slog bridge in the
// slog subpackage.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger accepts a message followed by alternating key/value pairs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	logger zerolog.Logger
}

// New returns a ZeroLogger writing to w. A nil writer defaults to stderr.
func New(w io.Writer) *ZeroLogger {
	if w == nil {
		w = os.Stderr
	}
	return &ZeroLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

func (l *ZeroLogger) Error(msg string, args ...any) {
	l.logger.Error().Fields(args).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, args ...any) {
	l.logger.Warn().Fields(args).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, args ...any) {
	l.logger.Info().Fields(args).Msg(msg)
}

func (l *ZeroLogger) Debug(msg string, args ...any) {
	l.logger.Debug().Fields(args).Msg(msg)
}
