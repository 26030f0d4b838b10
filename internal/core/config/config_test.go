package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing config file uses defaults", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(filepath.Join(dir, "nope.yaml"), dir)
		require.NoError(t, err)

		assert.Equal(t, "# My Todo List", cfg.Header)
		assert.Equal(t, 10, cfg.Backups.Retention)
		assert.Equal(t, ":3001", cfg.Webhook.Addr)
		assert.Equal(t, filepath.Join(dir, "backups"), cfg.Backups.Dir)
		assert.Equal(t, dir, cfg.DataDir)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
task_file: /tmp/my-todo.txt
backups:
  retention: 3
webhook:
  addr: "127.0.0.1:9000"
openai:
  model: gpt-4o-mini
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/my-todo.txt", cfg.TaskFile)
		assert.Equal(t, 3, cfg.Backups.Retention)
		assert.Equal(t, "127.0.0.1:9000", cfg.Webhook.Addr)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		// Unset fields still fall back to defaults.
		assert.Equal(t, "# My Todo List", cfg.Header)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("task_file: [nope"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("webhook:\n  addr: not-an-addr\n"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
	})

	t.Run("header must stay a comment", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`header: "My Todo List"`), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
	})
}

func TestValidateDeep(t *testing.T) {
	t.Run("task file pointing at a directory is rejected", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.DataDir = dir
		cfg.TaskFile = dir
		cfg.applyDefaults()

		require.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("nonexistent paths are fine", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.DataDir = dir
		cfg.TaskFile = filepath.Join(dir, "todo.txt")
		cfg.applyDefaults()

		require.NoError(t, cfg.ValidateDeep(""))
	})
}
