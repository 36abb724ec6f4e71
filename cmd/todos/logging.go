package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/sagarc03/todos/config"
)

// setupLogging installs the process-wide slog logger and routes the standard
// library logger (used by net/http for connection errors) through it.
func setupLogging(cfg *config.Config) {
	logger := slog.New(newLogHandler(os.Stderr, cfg)).With("version", version)
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(logger.Handler(), slog.LevelWarn).Writer())
}

// newLogHandler returns JSON output with an RFC 3339 "ts" key in production
// and colourised tint output with source locations otherwise.
func newLogHandler(w io.Writer, cfg *config.Config) slog.Handler {
	level := parseLevel(cfg.Log.Level)

	if !cfg.IsProduction() {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.TimeOnly,
		})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
}

// parseLevel maps a config level name to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
