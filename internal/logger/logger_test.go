package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core)).With(String("component", "processor"))

	log.Warn("fetch failed", String("url", "https://x.test/a"), Error(errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "fetch failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "processor", fields["component"])
	assert.Equal(t, "https://x.test/a", fields["url"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Info("ignored")
	assert.NotNil(t, log.With(Int("n", 1)))
	assert.NoError(t, log.Sync())
}
