package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		EnvFile:     filepath.Join(dir, ".env"),
		EnvTemplate: filepath.Join(dir, ".env.example"),
	}
}

func TestEnsureEnvFileCopiesTemplate(t *testing.T) {
	cfg := envConfig(t)
	require.NoError(t, os.WriteFile(cfg.EnvTemplate, []byte("#VESPA_DATA_DIR=./data\n"), 0o644))

	created, err := cfg.EnsureEnvFile()
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(cfg.EnvFile)
	require.NoError(t, err)
	assert.Equal(t, "#VESPA_DATA_DIR=./data\n", string(data))
}

func TestEnsureEnvFileNeverOverwrites(t *testing.T) {
	cfg := envConfig(t)
	require.NoError(t, os.WriteFile(cfg.EnvTemplate, []byte("template\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.EnvFile, []byte("user edits\n"), 0o644))

	created, err := cfg.EnsureEnvFile()
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(cfg.EnvFile)
	require.NoError(t, err)
	assert.Equal(t, "user edits\n", string(data))
}

func TestEnsureEnvFileMissingTemplate(t *testing.T) {
	cfg := envConfig(t)

	created, err := cfg.EnsureEnvFile()
	require.NoError(t, err)
	assert.False(t, created)

	_, err = os.Stat(cfg.EnvFile)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEnvFile(t *testing.T) {
	cfg := envConfig(t)
	require.NoError(t, os.WriteFile(cfg.EnvFile, []byte("VESPA_TEST_MARKER=loaded\n"), 0o644))
	t.Setenv("VESPA_TEST_MARKER", "") // register cleanup, godotenv will not override

	require.NoError(t, os.Unsetenv("VESPA_TEST_MARKER"))
	require.NoError(t, cfg.LoadEnvFile())

	assert.Equal(t, "loaded", os.Getenv("VESPA_TEST_MARKER"))
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	cfg := envConfig(t)
	assert.NoError(t, cfg.LoadEnvFile())
}
