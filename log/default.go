package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider returns the context used by logging functions and
// methods that do not accept one.
//
//nolint:gochecknoglobals
var DefaultContextProvider = context.TODO

//nolint:gochecknoglobals
var std atomic.Pointer[Logger]

//nolint:gochecknoinits
func init() {
	l := Make(os.Stderr)
	std.Store(&l)
}

// Default returns the package-level logger used by the logging functions.
func Default() Logger { return *std.Load() }

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) { std.Store(&l) }

// Config reconfigures the package-level logger with opts.
func Config(opts ...Option) {
	SetDefault(Default().Wrap(opts...))
}

// With returns a copy of the package-level logger that adds attrs to every
// record.
func With(attrs ...slog.Attr) Logger {
	return Default().With(attrs...)
}

// TraceContext logs at [LevelTrace] using the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	std.Load().log(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] using the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	std.Load().log(ctx, LevelDebug, msg, attrs)
}

// Debug logs at [LevelDebug] using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	std.Load().log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] using the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	std.Load().log(ctx, LevelInfo, msg, attrs)
}

// Info logs at [LevelInfo] using the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	std.Load().log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] using the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	std.Load().log(ctx, LevelWarn, msg, attrs)
}

// Warn logs at [LevelWarn] using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	std.Load().log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] using the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	std.Load().log(ctx, LevelError, msg, attrs)
}

// Error logs at [LevelError] using the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	std.Load().log(DefaultContextProvider(), LevelError, msg, attrs)
}
