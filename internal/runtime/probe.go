package runtime

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/docker/client"

	"github.com/searchstack/vespactl/internal/logger"
)

// CapabilityProbe answers the two questions behind GPU auto-detection.
//
// The interface isolates the only genuinely conditional logic of the CLI so
// mode resolution can be tested with a fake probe instead of real hardware.
// Both checks are best-effort: any failure simply reads as "no".
type CapabilityProbe interface {
	// HasGPU reports whether a functional NVIDIA management interface is
	// present on the host.
	HasGPU(ctx context.Context) bool

	// RuntimeSupportsGPU reports whether the container runtime can schedule
	// GPU workloads (e.g. the nvidia runtime is registered with the daemon).
	RuntimeSupportsGPU(ctx context.Context) bool
}

// probeTimeout bounds each individual capability check so a wedged driver
// cannot hang mode resolution.
const probeTimeout = 10 * time.Second

// hostProbe is the production CapabilityProbe. GPU presence is checked by
// shelling out to nvidia-smi; runtime support is checked by asking the Docker
// daemon which OCI runtimes it has registered.
type hostProbe struct {
	docker *client.Client
}

// NewHostProbe creates a CapabilityProbe backed by the host's nvidia-smi
// binary and the given Docker client.
func NewHostProbe(docker *client.Client) CapabilityProbe {
	return &hostProbe{docker: docker}
}

// HasGPU runs `nvidia-smi -L` and treats any successful invocation that lists
// at least one GPU as a positive result.
//
// A missing binary, a non-zero exit (driver not loaded) or empty output all
// read as "no GPU": the probe is conservative by design.
func (p *hostProbe) HasGPU(ctx context.Context) bool {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		logger.Debug("nvidia-smi not found in PATH: %v", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "nvidia-smi", "-L").Output()
	if err != nil {
		logger.Debug("nvidia-smi -L failed: %v", err)
		return false
	}

	// Each attached GPU prints one "GPU <n>: <name>" line.
	found := strings.Contains(string(out), "GPU")
	logger.Debug("nvidia-smi -L reported GPU present: %v", found)
	return found
}

// RuntimeSupportsGPU asks the Docker daemon for its registered OCI runtimes
// and reports whether the nvidia runtime is among them.
//
// This catches the common misconfiguration where the driver is installed but
// nvidia-container-toolkit is not, in which case `--gpus all` would fail at
// container start.
func (p *hostProbe) RuntimeSupportsGPU(ctx context.Context) bool {
	if p.docker == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	info, err := p.docker.Info(ctx)
	if err != nil {
		logger.Debug("Docker info query failed: %v", err)
		return false
	}

	_, ok := info.Runtimes["nvidia"]
	logger.Debug("Docker daemon nvidia runtime registered: %v", ok)
	return ok
}
