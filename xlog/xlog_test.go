package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xlist/lib/infra"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	entries := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestXLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerName("test"),
	)
	require.Equal(t, "debug", logger.Level())
	require.NotNil(t, logger.zap())

	logger.Debug("debug msg", zap.Int64("idx", 1))
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error(errors.New("boom"), "error msg")
	logger.Error(nil, "nil error msg")
	require.NoError(t, logger.Sync())

	entries := decodeLines(t, buf)
	require.Len(t, entries, 5)
	require.Equal(t, "DEBUG", entries[0]["lvl"])
	require.Equal(t, "debug msg", entries[0]["msg"])
	require.Equal(t, float64(1), entries[0]["idx"])
	require.Equal(t, "test", entries[0]["component"])
	require.Contains(t, entries[0]["callAt"], "xlog_test.go")
	require.Equal(t, "INFO", entries[1]["lvl"])
	require.Equal(t, "WARN", entries[2]["lvl"])
	require.Equal(t, "ERROR", entries[3]["lvl"])
	require.Equal(t, "boom", entries[3]["error"])
	_, ok := entries[4]["error"]
	require.False(t, ok)
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerLevel(LogLevelDebug),
	)
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, "warn", logger.Level())
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	require.Len(t, decodeLines(t, buf), 1)

	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("kept")
	require.Len(t, decodeLines(t, buf), 2)
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriteSyncer(zapcore.AddSync(buf)))

	errBase := errors.New("base")
	logger.ErrorStack(infra.WrapErrorStackWithMessage(errBase, "wrapped"), "with stack")
	logger.ErrorStack(errBase, "without stack")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	require.Equal(t, "wrapped", entries[0]["error"])
	require.Equal(t, []any{"base"}, entries[0]["causes"])
	frames, ok := entries[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Contains(t, frames[0], "TestXLogger_ErrorStack")
	require.Equal(t, "base", entries[1]["error"])
}

func TestXLogger_PlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
	)
	logger.Debug("dropped")
	logger.Info("plain")
	require.Contains(t, buf.String(), "INFO")
	require.Contains(t, buf.String(), "plain")
	require.NotContains(t, buf.String(), "dropped")
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(customWriter))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
	require.NotPanics(t, func() {
		NewXLogger(
			WithXLoggerWriter(StdOut),
			WithXLoggerLevelEncoder(nil),
			WithXLoggerTimeEncoder(nil),
		)
	})
}

func TestXLogger_LevelFromEnv(t *testing.T) {
	t.Setenv("XLOG_LVL", "error")
	logger := NewXLogger(WithXLoggerWriteSyncer(zapcore.AddSync(&bytes.Buffer{})))
	require.Equal(t, "error", logger.Level())

	testcases := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"Warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.want, getLogLevelOrDefault(tc.in))
	}
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.Equal(t, "fatal", logger.Level())
	logger.Debug("noop")
	logger.ErrorStack(infra.NewErrorStack("noop"), "noop")
	require.NoError(t, logger.Sync())
}
