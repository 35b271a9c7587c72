package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakeProbe substitutes the compose probe for the duration of a test.
func withFakeProbe(t *testing.T, fake func(ctx context.Context, argv []string) error) {
	t.Helper()
	orig := runProbe
	t.Cleanup(func() { runProbe = orig })
	runProbe = fake
}

func TestResolveComposeCommandPrefersPlugin(t *testing.T) {
	var probed [][]string
	withFakeProbe(t, func(_ context.Context, argv []string) error {
		probed = append(probed, argv)
		return nil // plugin form responds
	})

	cmd, err := ResolveComposeCommand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ComposeCommand{"docker", "compose"}, cmd)

	// The standalone binary must not have been probed once the plugin responded.
	require.Len(t, probed, 1)
	assert.Equal(t, []string{"docker", "compose", "version"}, probed[0])
}

func TestResolveComposeCommandFallsBackToStandalone(t *testing.T) {
	withFakeProbe(t, func(_ context.Context, argv []string) error {
		if argv[0] == "docker" {
			return fmt.Errorf("unknown command: compose")
		}
		return nil
	})

	cmd, err := ResolveComposeCommand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ComposeCommand{"docker-compose"}, cmd)
}

func TestResolveComposeCommandNeitherPresent(t *testing.T) {
	withFakeProbe(t, func(_ context.Context, _ []string) error {
		return fmt.Errorf("executable not found")
	})

	_, err := ResolveComposeCommand(context.Background())
	require.Error(t, err)

	var unavailable *RuntimeUnavailableError
	assert.True(t, errors.As(err, &unavailable),
		"expected RuntimeUnavailableError, got %T", err)
	assert.True(t, strings.Contains(err.Error(), "container runtime unavailable"))
}

func TestComposeCommandString(t *testing.T) {
	assert.Equal(t, "docker compose", ComposeCommand{"docker", "compose"}.String())
	assert.Equal(t, "docker-compose", ComposeCommand{"docker-compose"}.String())
}
