package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedFactory(level LogLevel) (LoggerFactory, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	factory := NewLoggingBuilder().
		SetMinimumLevel(level).
		AddProvider(WrapZap(zap.New(core))).
		Build()
	return factory, logs
}

func TestZapLogger_WritesFieldsAndCategory(t *testing.T) {
	factory, logs := newObservedFactory(LogLevelDebug)
	logger := factory.CreateLogger("di")

	logger.Info("found component", Field{Key: "type", Value: "app.UserService"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "found component", entries[0].Message)
	assert.Equal(t, "di", entries[0].LoggerName)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "app.UserService", entries[0].ContextMap()["type"])
}

func TestCompositeLogger_MinimumLevel(t *testing.T) {
	factory, logs := newObservedFactory(LogLevelInfo)
	logger := factory.CreateLogger("test")

	logger.Trace("trace")
	logger.Debug("debug")
	logger.Warn("warn")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0].Message)
}

func TestLogger_WithFieldsAndCategory(t *testing.T) {
	factory, logs := newObservedFactory(LogLevelTrace)
	base := factory.CreateLogger("a")

	scoped := base.WithFields(Field{Key: "k1", Value: 1}).WithCategory("b")
	scoped.Debug("hello", Field{Key: "k2", Value: "v"})
	base.Debug("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].LoggerName)
	ctx := entries[0].ContextMap()
	assert.EqualValues(t, 1, ctx["k1"])
	assert.Equal(t, "v", ctx["k2"])

	assert.Equal(t, "a", entries[1].LoggerName)
	assert.NotContains(t, entries[1].ContextMap(), "k1")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		err  bool
	}{
		{"trace", LogLevelTrace, false},
		{"DEBUG", LogLevelDebug, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"verbose", LogLevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("TESTLOG_LEVEL", "debug")
	t.Setenv("TESTLOG_FORMAT", "json")
	t.Setenv("TESTLOG_OUTPUT", "stdout,stderr")

	opts, err := LoadOptions("TESTLOG")
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "json", opts.Format)
	assert.Equal(t, []string{"stdout", "stderr"}, opts.Output)
}

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := LoadOptions("NOSUCHPREFIX")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestLoadOptions_Invalid(t *testing.T) {
	t.Setenv("BADLOG_LEVEL", "loud")
	opts, err := LoadOptions("BADLOG")
	assert.ErrorContains(t, err, `unknown level "loud"`)
	assert.Equal(t, DefaultOptions(), opts)

	t.Setenv("BADLOG_LEVEL", "debug")
	t.Setenv("BADLOG_FORMAT", "xml")
	_, err = LoadOptions("BADLOG")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestNewLogger_ReportsInvalidEnvironment(t *testing.T) {
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })

	t.Setenv("IOC_LOG_LEVEL", "loud")
	logger := NewLogger("test")

	assert.NotNil(t, logger)
	assert.Contains(t, buf.String(), `unknown level "loud"`)
	assert.Contains(t, buf.String(), "falling back to defaults")
}

func TestNewZapLoggerProvider_RejectsUnknownLevel(t *testing.T) {
	_, err := NewZapLoggerProvider(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	assert.NotNil(t, logger.WithFields(Field{Key: "k", Value: "v"}).WithCategory("x"))
}
