// Package logger provides structured logging for the application: a JSON
// slog handler configured from the server settings, plus context
// propagation so request-scoped loggers travel with the request.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/openbanca/bank-api/internal/config"
)

// Setup initializes the application's logging system from the server
// configuration. It creates a structured JSON logger with the configured
// level, sets it as the default logger and returns it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo

		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	log := slog.New(handler)

	slog.SetDefault(log)

	return log, nil
}
