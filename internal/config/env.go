package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/searchstack/vespactl/internal/logger"
)

// EnsureEnvFile creates the active environment file from its template if it
// does not exist yet.
//
// The copy only happens when EnvFile is absent: a user-edited .env is never
// overwritten, which keeps repeated start/restart invocations idempotent.
// A missing template is not an error either - the deployment simply runs
// without an environment file.
//
// Returns:
//   - true if the template was copied
//   - Error only on a genuine I/O failure during the copy
func (c *Config) EnsureEnvFile() (bool, error) {
	if _, err := os.Stat(c.EnvFile); err == nil {
		logger.Debug("Environment file %s already exists, leaving it untouched", c.EnvFile)
		return false, nil
	}

	data, err := os.ReadFile(c.EnvTemplate)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No environment template %s found, skipping", c.EnvTemplate)
			return false, nil
		}
		return false, fmt.Errorf("failed to read environment template: %w", err)
	}

	if err := os.WriteFile(c.EnvFile, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", c.EnvFile, err)
	}

	logger.Info("Created %s from %s", c.EnvFile, c.EnvTemplate)
	return true, nil
}

// LoadEnvFile loads the active environment file into the process environment
// so that its values are visible to the deployment (e.g. image build args
// exported by the user).
//
// A missing file is normal on a fresh checkout and is not an error.
func (c *Config) LoadEnvFile() error {
	if _, err := os.Stat(c.EnvFile); err != nil {
		logger.Debug("Environment file %s not present, skipping load", c.EnvFile)
		return nil
	}

	if err := godotenv.Load(c.EnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", c.EnvFile, err)
	}

	logger.Debug("Loaded environment from %s", c.EnvFile)
	return nil
}
