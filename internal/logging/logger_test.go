package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"turnavg/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "console"}, false, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.Int64("amount", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "WARN")
}

func TestNewWithWriter_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "error", Format: "console"}, true, &buf)
	require.NoError(t, err)

	logger.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, false, &buf)
	require.NoError(t, err)

	For(logger, CategoryStore).Info("saved", zap.Int64("total", 20))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "store", entry["logger"])
	assert.EqualValues(t, 20, entry["total"])
}

func TestNewWithWriter_BadFormat(t *testing.T) {
	_, err := NewWithWriter(config.LoggingConfig{Level: "info", Format: "xml"}, false, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFor_NilBase(t *testing.T) {
	assert.NotNil(t, For(nil, CategoryWatch))
}
