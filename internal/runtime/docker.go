// Package runtime provides container-runtime operations for the vespactl
// deployment CLI.
//
// The package wraps the Docker Engine API behind the handful of operations
// the CLI needs: building the workload image, running/stopping the single
// named workload container, streaming its logs, reporting its status and
// pruning the runtime. The container runtime is the sole source of truth -
// nothing is cached in-process, every query goes back to the daemon.
package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/searchstack/vespactl/internal/config"
	"github.com/searchstack/vespactl/internal/logger"
)

const (
	// engineVarPath is the engine's state directory inside the container;
	// the host vespa-data directory is mounted here.
	engineVarPath = "/opt/vespa/var"

	// engineModelsPath is the engine's model store inside the container;
	// the host vespa-models directory is mounted here.
	engineModelsPath = "/opt/vespa/models"

	// stopGraceSeconds is how long the engine gets to flush its transaction
	// log before the runtime escalates to SIGKILL.
	stopGraceSeconds = 30

	// Labels recording that vespactl created the container and which mode it
	// was started in. The mode label is the primary source for status; device
	// requests are only a fallback for containers started by other means.
	labelManaged = "vespactl.managed"
	labelMode    = "vespactl.mode"
)

// Runtime provides Docker-backed lifecycle operations for the workload
// container.
//
// All operations are synchronous and blocking: each call shells into the
// Docker daemon and waits for its result. The Runtime holds no mutable state
// of its own, so it is safe for concurrent use, although the CLI never issues
// concurrent operations.
type Runtime struct {
	client *client.Client
}

// NewRuntime creates a Runtime and verifies the container runtime is usable.
//
// This function performs the following initialization steps:
//  1. Creates a Docker client with environment-based configuration
//     (respects DOCKER_HOST, DOCKER_TLS_VERIFY, DOCKER_CERT_PATH)
//  2. Negotiates the API version with the daemon for compatibility
//  3. Verifies daemon connectivity with a 5-second ping timeout
//
// A failed ping is the one unrecoverable precondition of the CLI and is
// reported as RuntimeUnavailableError.
func NewRuntime() (*Runtime, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, &RuntimeUnavailableError{Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		return nil, &RuntimeUnavailableError{Err: err}
	}

	logger.Debug("Docker runtime client initialized")

	return &Runtime{client: cli}, nil
}

// Client exposes the underlying Docker client for operations not covered by
// the Runtime itself (e.g. the capability probe's daemon info query).
func (r *Runtime) Client() *client.Client {
	return r.client
}

// Close releases the Docker client's idle connections.
func (r *Runtime) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}

// FindContainer looks up the workload container by its fixed name.
//
// The lookup always goes to the daemon (stopped containers included); the CLI
// never assumes its own process holds authoritative state.
//
// Returns:
//   - The container summary, or nil if no container with that name exists
//   - Error if the daemon query fails
func (r *Runtime) FindContainer(ctx context.Context, name string) (*container.Summary, error) {
	containers, err := r.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("name", name),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	// The name filter matches substrings; require an exact match on the
	// canonical "/name" form.
	for i := range containers {
		for _, n := range containers[i].Names {
			if n == "/"+name {
				return &containers[i], nil
			}
		}
	}

	return nil, nil
}

// RunWorkload creates and starts the workload container detached.
//
// The container publishes the query and config-server ports on all host
// interfaces, bind-mounts the two data subdirectories read-write, and in GPU
// mode requests every host GPU through the nvidia driver (the API equivalent
// of `--gpus all`). Labels record the manager and the chosen mode so status
// can report it later without guessing.
//
// Returns:
//   - The created container ID
//   - Error if creation or start fails (fatal to the deployment, no retry)
func (r *Runtime) RunWorkload(ctx context.Context, cfg *config.Config, mode DeploymentMode) (string, error) {
	queryPort := nat.Port(fmt.Sprintf("%d/tcp", cfg.QueryPort))
	configPort := nat.Port(fmt.Sprintf("%d/tcp", cfg.ConfigServerPort))

	containerConfig := &container.Config{
		Image: cfg.ImageTag,
		ExposedPorts: nat.PortSet{
			queryPort:  struct{}{},
			configPort: struct{}{},
		},
		Labels: map[string]string{
			labelManaged: "true",
			labelMode:    string(mode),
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			queryPort: []nat.PortBinding{
				{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", cfg.QueryPort)},
			},
			configPort: []nat.PortBinding{
				{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", cfg.ConfigServerPort)},
			},
		},
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: cfg.EngineDataDir(),
				Target: engineVarPath,
			},
			{
				Type:   mount.TypeBind,
				Source: cfg.ModelsDir(),
				Target: engineModelsPath,
			},
		},
	}

	if mode == ModeGPU {
		hostConfig.Resources.DeviceRequests = []container.DeviceRequest{
			{
				Driver:       "nvidia",
				Count:        -1, // all GPUs
				Capabilities: [][]string{{"gpu"}},
			},
		}
	}

	logger.Info("Creating workload container %s from image %s (%s mode)",
		cfg.ContainerName, cfg.ImageTag, mode)

	resp, err := r.client.ContainerCreate(
		ctx,
		containerConfig,
		hostConfig,
		nil, // network config
		nil, // platform config
		cfg.ContainerName,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := r.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	logger.Info("Workload container started: %s", resp.ID[:12])

	return resp.ID, nil
}

// StopAndRemove stops and removes the workload container if it exists.
//
// The operation is idempotent and never treats "already stopped" or "already
// gone" as a failure: those conditions are expected in normal repeated use.
// Stop and remove errors other than not-found are logged and swallowed; only
// a failed daemon lookup is returned as an error.
//
// Returns:
//   - true if a container with the given name existed
//   - Error only if the container lookup itself fails
func (r *Runtime) StopAndRemove(ctx context.Context, name string) (bool, error) {
	c, err := r.FindContainer(ctx, name)
	if err != nil {
		return false, err
	}
	if c == nil {
		logger.Debug("Container %s not found, nothing to stop", name)
		return false, nil
	}

	logger.Info("Stopping container %s (%s)", name, c.ID[:12])

	grace := stopGraceSeconds
	if err := r.client.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &grace}); err != nil {
		if !cerrdefs.IsNotFound(err) {
			// Already-stopped containers land here on some daemon versions;
			// removal below is what actually matters.
			logger.Warn("Failed to stop container %s: %v", name, err)
		}
	}

	if err := r.client.ContainerRemove(ctx, c.ID, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}); err != nil && !cerrdefs.IsNotFound(err) {
		logger.Warn("Failed to remove container %s: %v", name, err)
	}

	return true, nil
}

// Inspect returns the full inspect document for the workload container.
//
// Returns:
//   - The inspect response, or nil if no container with that name exists
//   - Error if the daemon query fails
func (r *Runtime) Inspect(ctx context.Context, name string) (*container.InspectResponse, error) {
	info, err := r.client.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to inspect container: %w", err)
	}
	return &info, nil
}

// StreamLogs attaches to the workload container's log stream and copies it to
// the given writers until the stream ends or ctx is cancelled.
//
// The call blocks for the duration of the stream when follow is true; this is
// a deliberate pass-through, cancellation is delegated to the invoking
// terminal. A container that exists but is not running yields NotRunningError.
func (r *Runtime) StreamLogs(ctx context.Context, name string, follow bool, stdout, stderr io.Writer) error {
	info, err := r.Inspect(ctx, name)
	if err != nil {
		return err
	}
	if info == nil || info.State == nil || !info.State.Running {
		return &NotRunningError{Container: name}
	}

	reader, err := r.client.ContainerLogs(ctx, info.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
		Timestamps: false,
		Tail:       "all",
	})
	if err != nil {
		return fmt.Errorf("failed to attach to container logs: %w", err)
	}
	defer reader.Close()

	// TTY containers write a single raw stream; otherwise Docker multiplexes
	// stdout/stderr with 8-byte frame headers that stdcopy strips.
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(stdout, reader)
	} else {
		_, err = stdcopy.StdCopy(stdout, stderr, reader)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("log stream error: %w", err)
	}

	return nil
}

// PruneSummary aggregates the results of a global runtime prune.
type PruneSummary struct {
	ContainersDeleted int
	ImagesDeleted     int
	VolumesDeleted    int
	SpaceReclaimed    uint64
}

// Prune runs the runtime's global prune operations: stopped containers,
// unused images and unused volumes.
//
// This is NOT scoped to the workload - it is destructive to any other
// workloads sharing the same runtime, which is why the CLI asks for
// confirmation first. Individual prune failures are logged and the remaining
// steps still run.
func (r *Runtime) Prune(ctx context.Context) *PruneSummary {
	summary := &PruneSummary{}

	if report, err := r.client.ContainersPrune(ctx, filters.NewArgs()); err != nil {
		logger.Warn("Container prune failed: %v", err)
	} else {
		summary.ContainersDeleted = len(report.ContainersDeleted)
		summary.SpaceReclaimed += report.SpaceReclaimed
	}

	// dangling=false prunes all unused images, not only untagged layers.
	imageFilters := filters.NewArgs(filters.Arg("dangling", "false"))
	if report, err := r.client.ImagesPrune(ctx, imageFilters); err != nil {
		logger.Warn("Image prune failed: %v", err)
	} else {
		summary.ImagesDeleted = len(report.ImagesDeleted)
		summary.SpaceReclaimed += report.SpaceReclaimed
	}

	if report, err := r.client.VolumesPrune(ctx, filters.NewArgs()); err != nil {
		logger.Warn("Volume prune failed: %v", err)
	} else {
		summary.VolumesDeleted = len(report.VolumesDeleted)
		summary.SpaceReclaimed += report.SpaceReclaimed
	}

	return summary
}

// EnsureImage makes sure the named image is available locally, pulling it
// from the registry when missing. Used for the helper images (busybox) that
// permission alignment runs.
func (r *Runtime) EnsureImage(ctx context.Context, imageName string) error {
	filterArgs := filters.NewArgs()
	filterArgs.Add("reference", imageName)

	images, err := r.client.ImageList(ctx, image.ListOptions{Filters: filterArgs})
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}
	if len(images) > 0 {
		logger.Debug("Image %s found locally", imageName)
		return nil
	}

	logger.Info("Pulling image: %s", imageName)

	reader, err := r.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	// Drain the progress stream; the pull only completes once it is consumed.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to read pull output: %w", err)
	}

	return nil
}

// ModeFromInspect reconstructs the deployment mode of a running container.
//
// The mode label written at start time is authoritative. Containers started
// by other means lack the label, so the GPU device requests in the host
// config serve as a fallback signal.
func ModeFromInspect(info *container.InspectResponse) DeploymentMode {
	if info == nil {
		return ModeCPU
	}

	if info.Config != nil {
		if mode, ok := info.Config.Labels[labelMode]; ok {
			if DeploymentMode(mode) == ModeGPU {
				return ModeGPU
			}
			return ModeCPU
		}
	}

	if info.HostConfig != nil {
		for _, req := range info.HostConfig.Resources.DeviceRequests {
			for _, caps := range req.Capabilities {
				for _, c := range caps {
					if c == "gpu" {
						return ModeGPU
					}
				}
			}
		}
		if strings.EqualFold(info.HostConfig.Runtime, "nvidia") {
			return ModeGPU
		}
	}

	return ModeCPU
}

// Uptime returns how long the container has been running, or zero when the
// start timestamp is absent or unparsable.
func Uptime(info *container.InspectResponse) time.Duration {
	if info == nil || info.State == nil || !info.State.Running {
		return 0
	}
	startedAt, err := time.Parse(time.RFC3339Nano, info.State.StartedAt)
	if err != nil {
		return 0
	}
	return time.Since(startedAt)
}

// PortMappings renders the container's published ports as "host->container"
// strings, sorted by the daemon's own ordering.
func PortMappings(info *container.InspectResponse) []string {
	if info == nil || info.NetworkSettings == nil {
		return nil
	}

	var mappings []string
	for port, bindings := range info.NetworkSettings.Ports {
		for _, b := range bindings {
			mappings = append(mappings, fmt.Sprintf("%s:%s->%s", b.HostIP, b.HostPort, port))
		}
	}
	return mappings
}
