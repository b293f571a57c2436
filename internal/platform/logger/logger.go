package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes and configures the application's logging system based on
// the provided log level. It creates a structured JSON logger writing to
// stdout and sets it as the default logger for the application.
//
// Valid levels are "debug", "info", "warn" and "error" (case-insensitive).
// An invalid level falls back to info and emits a warning through the new
// logger itself.
func Setup(logLevel string) (*slog.Logger, error) {
	return SetupWithWriter(logLevel, os.Stdout)
}

// SetupWithWriter is like Setup but writes to the given writer. It exists so
// tests can capture log output without touching process streams.
func SetupWithWriter(logLevel string, out io.Writer) (*slog.Logger, error) {
	level, known := parseLevel(logLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	log := slog.New(slog.NewJSONHandler(out, opts))

	if !known {
		log.Warn("invalid log level configured, using default level",
			slog.String("configured_level", logLevel),
			slog.String("default_level", "info"))
	}

	// Set this logger as the default so bare slog.Info etc. also go through
	// the JSON handler.
	slog.SetDefault(log)

	return log, nil
}

// parseLevel maps a configured level string to a slog.Level. The second
// return value reports whether the string named a known level.
func parseLevel(logLevel string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ValidateLevel returns an error if the given string does not name a
// supported log level. Used by configuration validation.
func ValidateLevel(logLevel string) error {
	if _, known := parseLevel(logLevel); !known {
		return fmt.Errorf("unsupported log level %q", logLevel)
	}
	return nil
}
