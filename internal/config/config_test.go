package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "svcs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	t.Setenv("SVCS_LOG_LEVEL", "")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "vcs", cfg.RepoDir)
	assert.True(t, cfg.Catalog.Enabled)
}

func TestLoad(t *testing.T) {
	t.Setenv("SVCS_LOG_LEVEL", "")
	t.Setenv("SVCS_TEST_PORT", "9000")

	path := writeConfig(t, `
repo_dir: .svcs
log_level: debug
server:
  port: ${SVCS_TEST_PORT}
catalog:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".svcs", cfg.RepoDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.False(t, cfg.Catalog.Enabled)
}

func TestEnvOverridesLogLevel(t *testing.T) {
	t.Setenv("SVCS_LOG_LEVEL", "error")

	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestValidation(t *testing.T) {
	t.Setenv("SVCS_LOG_LEVEL", "")

	tests := map[string]string{
		"bad level":  "log_level: loud\n",
		"empty dir":  "repo_dir: \"\"\n",
		"bad port":   "server:\n  port: 70000\n",
		"zero cache": "cache:\n  size: 0\n",
		"bad yaml":   "server: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("SVCS_CONFIG", "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv("SVCS_CONFIG", "/etc/svcs.yaml")
	assert.Equal(t, "/etc/svcs.yaml", Path())
}
