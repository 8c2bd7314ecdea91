package molshape

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with molshape-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDevice adds a device id field to the logger.
func (l *Logger) WithDevice(id int) *Logger {
	return &Logger{
		Logger: l.Logger.With("device", id),
	}
}

// WithQuery adds a query name field to the logger.
func (l *Logger) WithQuery(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("query", name),
	}
}

// WithCandidates adds a candidate count field to the logger.
func (l *Logger) WithCandidates(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("candidates", count),
	}
}

// LogScreen logs a completed (or failed) screening batch.
func (l *Logger) LogScreen(ctx context.Context, query string, candidates, rejected int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "screen failed",
			"query", query,
			"candidates", candidates,
			"error", err,
		)
	} else if rejected > 0 {
		l.WarnContext(ctx, "screen completed with rejected candidates",
			"query", query,
			"candidates", candidates,
			"rejected", rejected,
		)
	} else {
		l.InfoContext(ctx, "screen completed",
			"query", query,
			"candidates", candidates,
		)
	}
}
