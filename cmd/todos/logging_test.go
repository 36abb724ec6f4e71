package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/todos/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "input %q", in)
	}
}

func TestNewLogHandler_Production(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "prod", Log: config.LogConfig{Level: "warn"}}

	logger := slog.New(newLogHandler(&buf, cfg))
	logger.Info("dropped")
	logger.Warn("kept", "item_id", "a")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "a", entry["item_id"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, entry, "time")
}

func TestNewLogHandler_Development(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "dev", Log: config.LogConfig{Level: "debug"}}

	slog.New(newLogHandler(&buf, cfg)).Debug("hello", "owner_id", "u1")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "owner_id")
	assert.False(t, json.Valid(buf.Bytes()))
}
