package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "TASKFLOW_DATA_DIR", "TASKFLOW_API_URL", "TASKFLOW_API_TIMEOUT",
		"TASKFLOW_ADDRESS", "TASKFLOW_DB_PATH", "TASKFLOW_SEED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:3001/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, ":3001", cfg.Server.Address)
	assert.False(t, cfg.Server.Seed)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "taskflow"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "taskflow.db"), cfg.Server.DBPath)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKFLOW_API_URL", "http://tasks.internal/api")
	t.Setenv("TASKFLOW_DATA_DIR", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.internal/api", cfg.API.BaseURL)
}

func TestWriteThenLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.yaml")

	cfg := &Config{
		LogLevel: "debug",
		DataDir:  dir,
		API:      APIConfig{BaseURL: "http://127.0.0.1:9999/api", Timeout: 3 * time.Second},
		Server:   ServerConfig{Address: ":9999", DBPath: filepath.Join(dir, "x.db"), Seed: true},
	}
	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
