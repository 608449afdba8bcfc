package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Gopher0727/StudyGroup/config"
)

func newFileLogger(t *testing.T, level string) (*Logger, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(&config.LoggingConfig{
		Level:    level,
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	return logger, logFile
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("stdout text logger", func(t *testing.T) {
		logger, err := NewLogger(&config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"})
		require.NoError(t, err)
		logger.Debug("test debug message")
		assert.NoError(t, logger.Close())
	})

	t.Run("file logger writes json", func(t *testing.T) {
		logger, path := newFileLogger(t, "info")
		logger.Info("group created", zap.String("group_id", "g-1"), zap.Int("max_size", 5))
		require.NoError(t, logger.Close())

		entries := readEntries(t, path)
		require.Len(t, entries, 1)
		assert.Equal(t, "info", entries[0]["level"])
		assert.Equal(t, "group created", entries[0]["message"])
		assert.Equal(t, "g-1", entries[0]["group_id"])
		assert.Equal(t, float64(5), entries[0]["max_size"])
		assert.NotEmpty(t, entries[0]["timestamp"])
	})

	t.Run("unwritable file path", func(t *testing.T) {
		_, err := NewLogger(&config.LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: filepath.Join(t.TempDir(), "missing", "dir", "x.log"),
		})
		assert.Error(t, err)
	})
}

func TestLogLevels(t *testing.T) {
	logger, path := newFileLogger(t, "warn")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	require.NoError(t, logger.Close())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn message", entries[0]["message"])
	assert.Equal(t, "error message", entries[1]["message"])
}

func TestTraceIDInLogs(t *testing.T) {
	logger, path := newFileLogger(t, "info")

	ctx := WithTraceID(context.Background(), "trace-abc-123")
	logger.InfoContext(ctx, "message with trace ID")
	logger.InfoContext(context.Background(), "message without trace ID")
	require.NoError(t, logger.Close())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "trace-abc-123", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestRejected(t *testing.T) {
	logger, path := newFileLogger(t, "info")

	logger.Rejected(context.Background(), "join_group", errors.New("group is full"), zap.String("group_id", "g-9"))
	require.NoError(t, logger.Close())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "operation rejected", entries[0]["message"])
	assert.Equal(t, "join_group", entries[0]["op"])
	assert.Equal(t, "group is full", entries[0]["reason"])
	assert.Equal(t, "g-9", entries[0]["group_id"])
}

func TestWithFieldsAndNamed(t *testing.T) {
	logger, path := newFileLogger(t, "info")

	logger.Named("group_service").WithFields(zap.String("user_id", "u-1")).Info("joined")
	require.NoError(t, logger.Close())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "group_service", entries[0]["logger"])
	assert.Equal(t, "u-1", entries[0]["user_id"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.InfoContext(context.Background(), "discarded")
	assert.NoError(t, logger.Close())
}

func TestTraceIDContext(t *testing.T) {
	t.Run("keeps provided trace ID", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "trace-456")
		assert.Equal(t, "trace-456", GetTraceID(ctx))
	})

	t.Run("generates UUID when empty", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "")
		assert.Len(t, GetTraceID(ctx), 36)
	})

	t.Run("missing trace ID", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})
}
