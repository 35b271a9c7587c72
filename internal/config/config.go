// Package config provides configuration management for the vespactl application.
//
// This package handles all configuration-related functionality including:
//   - Data directory resolution (flag > environment > default)
//   - Fixed workload identity (container name, image tag, published ports)
//   - Mode-dependent build inputs (Dockerfile selection)
//   - Environment-file (.env) lifecycle
//
// The configuration is resolved once per invocation into an immutable Config
// struct that is passed into each operation. There is no global mutable
// configuration state.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// ContainerName is the fixed name of the workload container. At most one
	// container with this name exists at a time; the container runtime owns
	// that invariant, the CLI only queries it.
	ContainerName = "vespa-search"

	// ImageTag is the fixed tag applied to locally built workload images.
	ImageTag = "vespa-search:latest"

	// QueryPort is the host and container port for the search/query API.
	QueryPort = 8080

	// ConfigServerPort is the host and container port for the config server API.
	ConfigServerPort = 19071

	// ServiceUID and ServiceGID identify the vespa service account inside the
	// workload image. Host data directories are chowned to this identity so
	// the containerized process can write to its mounted volumes.
	ServiceUID = 1000
	ServiceGID = 1000

	// DataDirEnvVar is the environment variable overriding the data root.
	DataDirEnvVar = "VESPA_DATA_DIR"

	// DefaultDataDir is the default data root, relative to the working directory.
	DefaultDataDir = "./data"

	// dataSubdir holds the search index and runtime state of the engine.
	dataSubdir = "vespa-data"

	// modelsSubdir holds embedding/ranking model files mounted into the engine.
	modelsSubdir = "vespa-models"

	// BuildContextDir is the Docker build context, relative to the working directory.
	BuildContextDir = "docker"

	// DockerfileCPU and DockerfileGPU are the per-mode Dockerfiles inside the
	// build context.
	DockerfileCPU = "Dockerfile"
	DockerfileGPU = "Dockerfile.gpu"

	// EnvFile is the active environment-config file, created on first run.
	EnvFile = ".env"

	// EnvTemplateFile is the template copied to EnvFile when absent.
	EnvTemplateFile = ".env.example"

	// RestartCooldown is the pause between stop and start during restart,
	// giving the runtime time to release the published port bindings. This is
	// a fixed guard, not a readiness poll.
	RestartCooldown = 5 * time.Second

	// viper key for the data root
	dataDirKey = "data_dir"
)

// Config represents the resolved deployment configuration for one invocation.
//
// The struct is built once by Load and treated as immutable afterwards.
type Config struct {
	// DataDir is the absolute path of the data directory root.
	DataDir string

	// ContainerName is the fixed workload container name.
	ContainerName string

	// ImageTag is the fixed image tag for built workload images.
	ImageTag string

	// QueryPort and ConfigServerPort are the two published TCP ports.
	QueryPort        int
	ConfigServerPort int

	// BuildContext is the Docker build context directory.
	BuildContext string

	// EnvFile and EnvTemplate are the active and template environment files.
	EnvFile     string
	EnvTemplate string

	// RestartCooldown is the stop-to-start pause used by restart.
	RestartCooldown time.Duration
}

// BindDefaults registers defaults and the environment override on the given
// viper instance. Called once from the root command before flag binding so
// the precedence chain is flag > environment > default.
func BindDefaults(v *viper.Viper) {
	v.SetDefault(dataDirKey, DefaultDataDir)
	// BindEnv only fails when called with no arguments.
	_ = v.BindEnv(dataDirKey, DataDirEnvVar)
}

// DataDirKey returns the viper key the --data-dir flag binds to.
func DataDirKey() string {
	return dataDirKey
}

// Load resolves the deployment configuration from the given viper instance.
//
// The data root is resolved to an absolute path because the container
// runtime requires absolute bind-mount sources.
//
// Returns:
//   - The resolved, immutable configuration
//   - Error if the data root cannot be made absolute
func Load(v *viper.Viper) (*Config, error) {
	dataDir, err := filepath.Abs(v.GetString(dataDirKey))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	return &Config{
		DataDir:          dataDir,
		ContainerName:    ContainerName,
		ImageTag:         ImageTag,
		QueryPort:        QueryPort,
		ConfigServerPort: ConfigServerPort,
		BuildContext:     BuildContextDir,
		EnvFile:          EnvFile,
		EnvTemplate:      EnvTemplateFile,
		RestartCooldown:  RestartCooldown,
	}, nil
}

// EngineDataDir returns the host directory mounted as the engine's var store.
// Example: /srv/vespa/vespa-data
func (c *Config) EngineDataDir() string {
	return filepath.Join(c.DataDir, dataSubdir)
}

// ModelsDir returns the host directory mounted as the engine's model store.
// Example: /srv/vespa/vespa-models
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir, modelsSubdir)
}

// TmpDir returns the nested scratch directory inside the engine data store.
func (c *Config) TmpDir() string {
	return filepath.Join(c.EngineDataDir(), "tmp")
}

// DataLayout returns every directory of the data tree in creation order.
// Parents precede children so MkdirAll calls stay cheap and predictable.
func (c *Config) DataLayout() []string {
	return []string{
		c.EngineDataDir(),
		c.ModelsDir(),
		c.TmpDir(),
	}
}

// DockerfileForMode returns the Dockerfile (relative to the build context)
// for the given deployment mode.
func (c *Config) DockerfileForMode(gpu bool) string {
	if gpu {
		return DockerfileGPU
	}
	return DockerfileCPU
}
