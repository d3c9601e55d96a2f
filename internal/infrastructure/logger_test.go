package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solareda/internal/config"
)

func decodeLastLine(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := decodeLastLine(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	_, statErr := os.Stat(filepath.Join(dir, "b.log"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, file, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
		require.NoError(t, err)
		assert.Nil(t, file)

		logger.Info("loaded", "rows", 3)
		entry := decodeLastLine(t, buf.Bytes())
		assert.Equal(t, float64(3), entry["rows"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
		require.NoError(t, err)

		logger.Info("loaded", "rows", 3)
		assert.Contains(t, buf.String(), "msg=loaded")
		assert.Contains(t, buf.String(), "rows=3")
	})
}

func TestNewLogger_FileOutputError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, _, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "eda.log")}, os.Stdout)
	assert.Error(t, err)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")

	entry := decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "test-trace-123", entry["trace_id"])
	assert.NotContains(t, entry, "otel_trace_id")
}

func TestTraceIDInjection_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "abc")
	logger.With("component", "loader").InfoContext(ctx, "hello")

	entry := decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "abc", entry["trace_id"])
	assert.Equal(t, "loader", entry["component"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logAt    slog.Level
		expected string
		visible  bool
	}{
		{"debug", slog.LevelDebug, "DEBUG", true},
		{"info", slog.LevelInfo, "INFO", true},
		{"info", slog.LevelDebug, "", false},
		{"warning", slog.LevelWarn, "WARN", true},
		{"error", slog.LevelWarn, "", false},
		{"error", slog.LevelError, "ERROR", true},
		{"unknown", slog.LevelInfo, "INFO", true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"_"+tt.logAt.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger, _, err := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)
			require.NoError(t, err)

			logger.Log(context.Background(), tt.logAt, "level check")

			if !tt.visible {
				assert.Empty(t, buf.String())
				return
			}
			entry := decodeLastLine(t, buf.Bytes())
			assert.Equal(t, tt.expected, entry["level"])
		})
	}
}

func TestContextHelpers(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))

	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace id is kept")
	assert.NotEqual(t, traceID, GetTraceID(EnsureTraceID(context.Background())))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(logger, "summarizer").Info("component test")
	entry := decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "summarizer", entry["component"])

	assert.NotNil(t, WithComponent(nil, "fallback"))
}

func TestTraceHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	logger.InfoContext(WithTraceID(context.Background(), "req-1"), "scoped")
	entry := decodeLastLine(t, buf.Bytes())
	assert.Equal(t, "req-1", entry["trace_id"])

	logger.With("component", "cli").InfoContext(context.Background(), "unscoped")
	entry = decodeLastLine(t, buf.Bytes())
	assert.NotContains(t, entry, "trace_id")
	assert.Equal(t, "cli", entry["component"])
}
