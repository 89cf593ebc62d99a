package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(core, LevelInfo)

	l.Debug("hidden")
	l.Info("tick", Int("tick", 3), Float64("speed", 1.5), Uint64("launch", 2))
	l.With(String("component", "sandbox")).Warn("slow", Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tick", entries[0].Message)
	assert.EqualValues(t, 3, entries[0].ContextMap()["tick"])
	assert.Equal(t, "sandbox", entries[1].ContextMap()["component"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("visible")
	require.Len(t, logs.All(), 3)
}

func TestWithContextClientID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(core, LevelDebug)

	ctx := WithClientID(context.Background(), "c-1")
	l.WithContext(ctx).Info("joined")
	l.WithContext(context.Background()).Info("anon")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "c-1", entries[0].ContextMap()["client_id"])
	_, ok := entries[1].ContextMap()["client_id"]
	assert.False(t, ok)
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
	assert.Equal(t, LevelFatal, l.GetLevel())
}
