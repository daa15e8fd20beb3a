package pointbuf

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/pointbuf/layout"
)

// Logger wraps slog.Logger with pointbuf-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithKind adds the buffer kind to the logger.
func (l *Logger) WithKind(kind Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind.String()),
	}
}

// WithPath adds a file path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithLayout adds the point size and attribute count of a layout.
func (l *Logger) WithLayout(lay *layout.Layout) *Logger {
	return &Logger{
		Logger: l.Logger.With("point_size", lay.Size(), "attributes", lay.Len()),
	}
}

// LogCreate logs the creation of an owning buffer.
func (l *Logger) LogCreate(ctx context.Context, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "buffer creation failed",
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "buffer created",
			"capacity", capacity,
		)
	}
}

// LogGrow logs a storage reallocation.
func (l *Logger) LogGrow(ctx context.Context, storage string, oldBytes, newBytes int) {
	l.DebugContext(ctx, "buffer storage grown",
		"storage", storage,
		"old_bytes", oldBytes,
		"new_bytes", newBytes,
	)
}

// LogMap logs the mapping of a point file.
func (l *Logger) LogMap(ctx context.Context, points int, writable bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mapping failed",
			"writable", writable,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "point file mapped",
			"points", points,
			"writable", writable,
		)
	}
}

// LogUnmap logs the release of a mapping.
func (l *Logger) LogUnmap(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unmap failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "point file unmapped")
	}
}
