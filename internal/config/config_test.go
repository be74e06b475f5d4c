package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.Hidden)
	assert.False(t, cfg.NoIgnore)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.History.Enabled)
	assert.Empty(t, cfg.History.DBPath)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linegrep.yaml")
	content := `
workers: 12
hidden: true
log_level: debug
history:
  enabled: false
  db_path: /tmp/custom.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Workers)
	assert.True(t, cfg.Hidden)
	assert.False(t, cfg.NoIgnore) // untouched field keeps its default
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/custom.db", cfg.History.DBPath)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linegrep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hidden: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Hidden)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linegrep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [not a number\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalidWorkerCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linegrep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "workers must be at least 1")
}

func TestDatabasePathOverride(t *testing.T) {
	h := HistoryConfig{DBPath: "/custom/history.db"}

	path, err := h.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/history.db", path)
}

func TestDatabasePathDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	h := HistoryConfig{}
	path, err := h.DatabasePath()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".linegrep", "history.db"), path)
}

func TestLoadDefaultUsesHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte("workers: 3\n"), 0644))

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestSearchCopiesAreIndependent(t *testing.T) {
	base := Search{Query: "foo", TargetPath: "/a", Hidden: true}

	clone := base
	clone.TargetPath = "/a/b"
	clone.Hidden = false

	assert.Equal(t, "/a", base.TargetPath)
	assert.True(t, base.Hidden)
}
