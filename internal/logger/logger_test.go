package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	long := strings.Repeat("A", 1000)
	got := sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"Authorization", "Bearer x",
		"input_tokens", 42,
		"image_base64", long,
		"purpose", "steps",
		"dangling",
	})

	require.Len(t, got, 11)
	assert.Equal(t, "[REDACTED]", got[1])
	assert.Equal(t, "[REDACTED]", got[3])
	assert.Equal(t, 42, got[5])
	assert.Contains(t, got[7], "(1000 bytes)")
	assert.Equal(t, "steps", got[9])
	assert.Equal(t, "dangling", got[10])
}

func TestLoggerRedactsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("request_id", "r1").Info("calling oracle", "api_key", "secret-value", "deployment", "gpt4o")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	assert.Equal(t, "gpt4o", fields["deployment"])
	assert.Equal(t, "r1", fields["request_id"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
