package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchstack/vespactl/internal/config"
)

func layoutConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{DataDir: t.TempDir()}
}

func TestEnsureDataLayout(t *testing.T) {
	cfg := layoutConfig(t)

	require.NoError(t, EnsureDataLayout(cfg))

	for _, dir := range []string{cfg.EngineDataDir(), cfg.ModelsDir(), cfg.TmpDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "expected %s to exist", dir)
		assert.True(t, info.IsDir())
	}

	// tmp must be nested inside the engine data directory
	assert.Equal(t, filepath.Join(cfg.EngineDataDir(), "tmp"), cfg.TmpDir())
}

func TestEnsureDataLayoutIdempotent(t *testing.T) {
	cfg := layoutConfig(t)

	require.NoError(t, EnsureDataLayout(cfg))

	// Pre-existing content must survive a second run.
	marker := filepath.Join(cfg.EngineDataDir(), "documents.dat")
	require.NoError(t, os.WriteFile(marker, []byte("index"), 0o644))

	require.NoError(t, EnsureDataLayout(cfg))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "index", string(data))
}
