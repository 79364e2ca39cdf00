package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]any{"model", "gemini-2.5-flash", "gemini_api_key", "sk-123", "dangling"})
	assert.Equal(t, []any{"model", "gemini-2.5-flash", "gemini_api_key", "[REDACTED]", "dangling"}, out)
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		l.Debug("hello", "mode", mode)
		l.With("section", "warm_up").Info("with fields")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Warn("discarded", "k", 1)
	l.Error("discarded")
}
