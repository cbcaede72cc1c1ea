package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(" WARN ")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud")
	assert.ErrorContains(t, err, `parse log level "loud"`)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfqa.log")

	l, err := New("info", path)
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Sync())

	assert.FileExists(t, path)
}

func TestWithAction(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "SubmitQuestion")
	ctxzap.Info(ctx, "asked")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "SubmitQuestion", logs.All()[0].ContextMap()["action"])
}

func TestWithFallback(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	fallback := zap.New(core)

	ctx := WithFallback(context.Background(), fallback)
	ctxzap.Info(ctx, "from fallback")
	assert.Equal(t, 1, logs.Len())

	otherCore, otherLogs := observer.New(zapcore.InfoLevel)
	ctx = ctxzap.ToContext(context.Background(), zap.New(otherCore))
	ctx = WithFallback(ctx, fallback)
	ctxzap.Info(ctx, "from context")

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, otherLogs.Len())
}
