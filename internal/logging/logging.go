// Package logging builds the structured logger every binary shares.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/coldtrail/iot-broker/internal/config"
)

// off is used when log_level doesn't match a known level; it sits above
// slog's highest defined level so nothing is emitted.
const off = slog.LevelError + 4

// New builds a logger whose handler depends on env (text in Local, JSON
// otherwise) and whose minimum level depends on log_level, parsed
// case-insensitively with an "off" fallback for unrecognized values.
func New(serviceName string, cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Env == config.EnvLocal {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", serviceName))
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return off
	}
}
