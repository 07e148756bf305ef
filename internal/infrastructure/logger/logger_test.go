package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("room created", zap.String("number", "A-101"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"room created"`)
	assert.Contains(t, string(data), `"number":"A-101"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log, err := New(&Config{Level: "error", Output: filepath.Join(t.TempDir(), "x.log")}, core)
	require.NoError(t, err)

	log.Info("forwarded")
	require.Equal(t, 1, logs.FilterMessage("forwarded").Len())
}

func TestNew_InvalidOutput(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithUser(ctx, FromContext(ctx), "user-7", "STUDENT")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-7", GetUserID(ctx))
	assert.Equal(t, "STUDENT", GetRole(ctx))
	assert.Empty(t, GetTraceID(ctx))

	L(ctx).Info("booking created")
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-7", fields["user_id"])
	assert.Equal(t, "STUDENT", fields["role"])
}

func TestEnrich_WithoutAttachedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")

	Enrich(ctx, zap.New(core)).Info("hello")
	assert.Equal(t, "req-9", logs.All()[0].ContextMap()["request_id"])
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, Enrich(context.Background(), nil))
}
