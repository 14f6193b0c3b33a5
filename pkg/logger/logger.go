package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. Setup must run before any helper is used.
var Log *slog.Logger = slog.Default()

// Setup initializes the global logger. Production emits JSON, every other
// environment emits human readable text. level accepts debug, info, warn or error.
func Setup(env, level string) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: env != "production",
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler).With(slog.String("service", "dealership-api"))
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// With returns a child logger carrying the given attributes, e.g. a sale id.
func With(args ...any) *slog.Logger {
	return Log.With(args...)
}
