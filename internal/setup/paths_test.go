package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tgienger/taskflow/internal/logger"
)

const settings = `{
  "permissions": {"allow": ["Bash(go test:*)"]},
  "hooks": {
    "PreToolUse": [
      {
        "matcher": "Bash",
        "hooks": [
          {"type": "command", "command": "hooks/pre_tool_use.py --backup --verbose"},
          {"type": "command", "command": "/usr/local/bin/audit"}
        ]
      }
    ],
    "Stop": [
      {"hooks": [{"type": "command", "command": "hooks/stop.sh"}]}
    ]
  }
}`

func writeProject(t *testing.T, body string) (root, settingsPath string) {
	t.Helper()
	root = t.TempDir()
	claudeDir := filepath.Join(root, ".claude")
	require.NoError(t, os.MkdirAll(filepath.Join(claudeDir, "hooks"), 0755))
	settingsPath = filepath.Join(claudeDir, "settings.json")
	require.NoError(t, os.WriteFile(settingsPath, []byte(body), 0644))
	return root, settingsPath
}

func TestRewritePaths(t *testing.T) {
	root, settingsPath := writeProject(t, settings)
	hooksDir := filepath.Join(root, ".claude", "hooks")
	require.NoError(t, os.WriteFile(filepath.Join(hooksDir, "pre_tool_use.py"), []byte("#!/usr/bin/env python3\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(hooksDir, "stop.sh"), []byte("#!/bin/sh\n"), 0644))

	res, err := RewritePaths(settingsPath, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, root, res.ProjectRoot)
	assert.Equal(t, 2, res.Rewritten)
	assert.Equal(t, 2, res.MadeExecutable)
	assert.Empty(t, res.ChmodFailures)

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	doc := string(data)
	assert.Equal(t, root, gjson.Get(doc, "env.CLAUDE_PROJECT_ROOT").String())
	assert.Equal(t, filepath.Join(hooksDir, "pre_tool_use.py")+" --backup --verbose",
		gjson.Get(doc, "hooks.PreToolUse.0.hooks.0.command").String())
	assert.Equal(t, "/usr/local/bin/audit", gjson.Get(doc, "hooks.PreToolUse.0.hooks.1.command").String())
	assert.Equal(t, filepath.Join(hooksDir, "stop.sh"), gjson.Get(doc, "hooks.Stop.0.hooks.0.command").String())
	assert.Equal(t, "Bash(go test:*)", gjson.Get(doc, "permissions.allow.0").String())
	assert.Equal(t, byte('\n'), data[len(data)-1])

	info, err := os.Stat(filepath.Join(hooksDir, "stop.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestRewritePathsIsIdempotent(t *testing.T) {
	_, settingsPath := writeProject(t, settings)

	_, err := RewritePaths(settingsPath, logger.Discard())
	require.NoError(t, err)
	first, err := os.ReadFile(settingsPath)
	require.NoError(t, err)

	res, err := RewritePaths(settingsPath, logger.Discard())
	require.NoError(t, err)
	assert.Zero(t, res.Rewritten)
	second, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRewritePathsMissingScriptsAreReported(t *testing.T) {
	_, settingsPath := writeProject(t, settings)

	res, err := RewritePaths(settingsPath, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rewritten)
	assert.Zero(t, res.MadeExecutable)
	assert.Len(t, res.ChmodFailures, 2)
}

func TestRewritePathsWithoutHooks(t *testing.T) {
	root, settingsPath := writeProject(t, `{"env": {"FOO": "bar"}}`)

	res, err := RewritePaths(settingsPath, logger.Discard())
	require.NoError(t, err)
	assert.Zero(t, res.Rewritten)

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "bar", gjson.GetBytes(data, "env.FOO").String())
	assert.Equal(t, root, gjson.GetBytes(data, "env.CLAUDE_PROJECT_ROOT").String())
}

func TestRewritePathsRejectsInvalidJSON(t *testing.T) {
	_, settingsPath := writeProject(t, `{"hooks": `)
	_, err := RewritePaths(settingsPath, logger.Discard())
	assert.Error(t, err)

	_, err = RewritePaths(filepath.Join(t.TempDir(), "missing.json"), logger.Discard())
	assert.Error(t, err)
}
