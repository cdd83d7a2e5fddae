package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetupRespectsLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	logger := setupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)

	logger.Info("hidden message")
	logger.Warn("visible message", "component", "test")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible message", entries[0]["msg"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Same(t, logger, slog.Default())
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	logger, buf := GetTestLogger(t)
	fallback, fallbackBuf := GetTestLogger(t)

	t.Run("returns fallback without logger", func(t *testing.T) {
		FromContextOrDefault(context.Background(), fallback).Info("from fallback")
		AssertLogContains(t, fallbackBuf, "from fallback")
	})

	t.Run("returns stored logger with request id", func(t *testing.T) {
		ctx := WithRequestID(WithLogger(context.Background(), logger), "req-42")
		FromContextOrDefault(ctx, fallback).Info("from context")
		AssertLogContains(t, buf, "from context")
		AssertLogField(t, buf, "request_id", "req-42")
	})
}
