package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()
	l, err := New(Options{Env: "production", Level: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(Options{Env: "dev", Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New(Options{Env: "production", Level: "loud"})
	require.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))
	ctx = WithFields(ctx, zap.String("request_id", "r1"))

	L(ctx).Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].ContextMap()["request_id"])

	assert.Same(t, Default(), FromContext(context.Background()))
}
