package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, output *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_JSONLevels(t *testing.T) {
	tests := []struct {
		level    string
		wantMsgs []string
	}{
		{level: "debug", wantMsgs: []string{"debug", "info", "warn", "error"}},
		{level: "info", wantMsgs: []string{"info", "warn", "error"}},
		{level: "warn", wantMsgs: []string{"warn", "error"}},
		{level: "error", wantMsgs: []string{"error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			output := &bytes.Buffer{}
			logger, err := New(&Config{Level: tt.level, Format: "json", writer: output})
			require.NoError(t, err)

			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			var got []string
			for _, entry := range decodeLines(t, output) {
				got = append(got, entry["msg"].(string))
			}
			assert.Equal(t, tt.wantMsgs, got)
		})
	}
}

func TestNew_ServiceAttribute(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "json", Service: "piwork-api", writer: output})
	require.NoError(t, err)

	logger.Info("payment approved", slog.String("payment_id", "P1"))

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	assert.Equal(t, "piwork-api", entries[0]["service"])
	assert.Equal(t, "P1", entries[0]["payment_id"])
	assert.Contains(t, entries[0], "time")
}

func TestNew_Source(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "json", EnableSource: true, writer: output})
	require.NoError(t, err)

	logger.Info("with source")

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	source, ok := entries[0]["source"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, source, "file")
	assert.Contains(t, source, "line")
}

func TestNew_ConsoleFormat(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "console", writer: output})
	require.NoError(t, err)

	logger.Info("console message", slog.String("key", "value"))

	line := output.String()
	assert.Contains(t, line, "console message")
	assert.Contains(t, line, "key=value")
	assert.NotContains(t, line, "\x1b[")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "api.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"DEBUG":   slog.LevelInfo,
		"invalid": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for level, want := range tests {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(level))
		})
	}
}

func TestLogger_WithGroup(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "json", writer: output})
	require.NoError(t, err)

	logger.WithGroup("payment").Info("grouped", slog.String("id", "P1"))

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	group := entries[0]["payment"].(map[string]any)
	assert.Equal(t, "P1", group["id"])
}

func TestLogger_With(t *testing.T) {
	output := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "json", writer: output})
	require.NoError(t, err)

	logger.With(slog.String("component", "reconciler"), slog.Int("attempt", 2)).Info("retrying")

	entries := decodeLines(t, output)
	require.Len(t, entries, 1)
	assert.Equal(t, "reconciler", entries[0]["component"])
	assert.Equal(t, float64(2), entries[0]["attempt"])
}
