package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultDataDir(t *testing.T) {
	v := viper.New()
	BindDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	want, err := filepath.Abs(DefaultDataDir)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.DataDir)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnvVar, dir)

	v := viper.New()
	BindDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoadFlagBeatsEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(DataDirEnvVar, envDir)

	v := viper.New()
	BindDefaults(v)
	// The root command calls v.Set via BindPFlag when --data-dir is given;
	// an explicit Set has the same precedence.
	v.Set(DataDirKey(), flagDir)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, flagDir, cfg.DataDir)
}

func TestLoadFixedIdentity(t *testing.T) {
	v := viper.New()
	BindDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "vespa-search", cfg.ContainerName)
	assert.Equal(t, "vespa-search:latest", cfg.ImageTag)
	assert.Equal(t, 8080, cfg.QueryPort)
	assert.Equal(t, 19071, cfg.ConfigServerPort)
}

func TestDataLayout(t *testing.T) {
	cfg := &Config{DataDir: "/srv/vespa"}

	assert.Equal(t, filepath.Join("/srv/vespa", "vespa-data"), cfg.EngineDataDir())
	assert.Equal(t, filepath.Join("/srv/vespa", "vespa-models"), cfg.ModelsDir())
	assert.Equal(t, filepath.Join("/srv/vespa", "vespa-data", "tmp"), cfg.TmpDir())

	layout := cfg.DataLayout()
	require.Len(t, layout, 3)
	// Parents must precede children.
	assert.Equal(t, cfg.EngineDataDir(), layout[0])
	assert.Equal(t, cfg.TmpDir(), layout[2])
}

func TestDockerfileForMode(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "Dockerfile.gpu", cfg.DockerfileForMode(true))
	assert.Equal(t, "Dockerfile", cfg.DockerfileForMode(false))
}
