package logger

import (
	"os"
	"path/filepath"
	"testing"

	"qbank/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_BeforeInitializeIsUsable(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Get())
	Get().Info("no-op logger accepts entries")
}

func TestInitialize_InvalidLevel(t *testing.T) {
	err := Initialize(config.LoggerConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestInitialize_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qbank.log")
	require.NoError(t, Initialize(config.LoggerConfig{
		Level:      "debug",
		Env:        "production",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}))
	t.Cleanup(func() { Set(nil) })

	Get().Info("file entry", zap.String("component", "test"))
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"file entry"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestSet_ObserverCapturesEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Get().Warn("captured")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "captured", logs.All()[0].Message)
}
