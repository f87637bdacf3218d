package logger

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		wantSlog slog.Level
		wantZap  zapcore.Level
		wantOK   bool
	}{
		{"debug", slog.LevelDebug, zapcore.DebugLevel, true},
		{"INFO", slog.LevelInfo, zapcore.InfoLevel, true},
		{"", slog.LevelInfo, zapcore.InfoLevel, true},
		{"warning", slog.LevelWarn, zapcore.WarnLevel, true},
		{"error", slog.LevelError, zapcore.ErrorLevel, true},
		{"verbose", slog.LevelInfo, zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, z, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.wantSlog, s)
			assert.Equal(t, tt.wantZap, z)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestAdapterWritesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitSlog(zap.New(core), "info")
	t.Cleanup(func() { InitSlog(zap.NewNop(), "info") })

	l := NewSlogAdapter()
	l.Debug("hidden")
	l.Info("fetched", "count", 3)
	l.Warn("slow")
	l.Error("failed", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "fetched", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewZapLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestConcurrentFirstUseBeforeInit(t *testing.T) {
	globalLogger.Store(nil)
	fallbackOnce = sync.Once{}
	t.Cleanup(func() { InitSlog(zap.NewNop(), "info") })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Info("first use", "worker", i)
			NewSlogAdapter().Warn("first use")
		}()
	}
	wg.Wait()

	first := globalLogger.Load()
	require.NotNil(t, first)
	Debug("again")
	assert.Same(t, first, globalLogger.Load())
}
