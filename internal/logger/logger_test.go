package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWithServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New("api", "debug", &buf)
	WithRequestID(log, "req-1").Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "api", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Contains(t, line, "ts")
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("api", "chatty", &buf)
	log.Debug("hidden")
	assert.Zero(t, buf.Len())
	log.Info("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, closer, err := NewFile("tui", "info", dir)
	require.NoError(t, err)
	log.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "tui.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
}
