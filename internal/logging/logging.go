// Package logging configures the process-wide slog logger.
//
// Development gets colored output through tint; production (or LOG_FORMAT=json)
// gets one JSON object per line on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/dateideas/date-ideas-api/config"
)

// Setup builds the logger described by cfg and installs it with slog.SetDefault.
func Setup(cfg config.AppConfig) *slog.Logger {
	logger := New(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, cfg config.AppConfig) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)

	var handler slog.Handler
	if useJSON(cfg) {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}

	return slog.New(handler).With("service", cfg.ServiceName)
}

func useJSON(cfg config.AppConfig) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		return true
	case "text":
		return false
	}
	return cfg.Environment == "production"
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
