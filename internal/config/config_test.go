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

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.True(t, cfg.ConfirmDelete)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKMAN_SERVER_URL", "https://tasks.example.com")
	t.Setenv("TASKMAN_PAGE_SIZE", "25")
	t.Setenv("TASKMAN_LOG_LEVEL", "DEBUG")

	cfg := DefaultConfig()

	assert.Equal(t, "https://tasks.example.com", cfg.ServerURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestInvalidPageSizeEnvIgnored(t *testing.T) {
	t.Setenv("TASKMAN_PAGE_SIZE", "zero")
	assert.Equal(t, 10, DefaultConfig().PageSize)

	t.Setenv("TASKMAN_PAGE_SIZE", "-5")
	assert.Equal(t, 10, DefaultConfig().PageSize)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.ServerURL = "https://tasks.example.com"
	cfg.PageSize = 50
	cfg.ConfirmDelete = false
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", loaded.ServerURL)
	assert.Equal(t, 50, loaded.PageSize)
	assert.False(t, loaded.ConfirmDelete)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: https://tasks.example.com\n"), 0644))

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.ServerURL)
	assert.Equal(t, 10, cfg.PageSize)
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unclosed\n"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFromClampsBadPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: -3\n"), 0644))

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
}
