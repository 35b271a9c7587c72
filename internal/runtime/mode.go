package runtime

import (
	"context"
	runtimePkg "runtime"

	"github.com/searchstack/vespactl/internal/logger"
)

// DeploymentMode selects which image variant and runtime flags are used for
// the workload container. The mode is derived once per invocation and
// recorded as a container label so status can report it later.
type DeploymentMode string

const (
	// ModeGPU runs the GPU image with all host GPUs requested.
	ModeGPU DeploymentMode = "gpu"

	// ModeCPU runs the CPU-only image.
	ModeCPU DeploymentMode = "cpu"
)

// String returns a human-readable mode description for status output.
func (m DeploymentMode) String() string {
	if m == ModeGPU {
		return "GPU-accelerated"
	}
	return "CPU-only"
}

// ModeOptions carries the user's explicit mode intent from the command line.
// Both flags may be set; ForceGPU is evaluated first and wins.
type ModeOptions struct {
	ForceGPU bool
	ForceCPU bool
}

// Host platform identifiers, kept as variables so tests can simulate other
// platforms without cross-compiling.
var (
	hostOS   = runtimePkg.GOOS
	hostArch = runtimePkg.GOARCH
)

// ResolveMode decides between GPU and CPU deployment.
//
// The decision is deterministic and ordered:
//  1. --force-gpu wins unconditionally, no probing.
//  2. --force-cpu wins next, no probing.
//  3. Apple Silicon hosts go straight to CPU; no NVIDIA probing is attempted.
//  4. Auto-detection requires BOTH a functional NVIDIA management interface
//     AND GPU support in the container runtime. Requiring both is deliberate:
//     a GPU the runtime cannot schedule would make the GPU image fail at run
//     time, so detection is conservative and falls back to CPU with a warning.
//  5. Default fallback is CPU.
//
// Explicit user intent always overrides detection.
func ResolveMode(ctx context.Context, opts ModeOptions, probe CapabilityProbe) DeploymentMode {
	if opts.ForceGPU {
		logger.Debug("GPU mode forced by flag")
		return ModeGPU
	}
	if opts.ForceCPU {
		logger.Debug("CPU mode forced by flag")
		return ModeCPU
	}

	if hostOS == "darwin" && hostArch == "arm64" {
		logger.Debug("Apple Silicon host detected, selecting CPU mode without probing")
		return ModeCPU
	}

	if probe.HasGPU(ctx) {
		if probe.RuntimeSupportsGPU(ctx) {
			logger.Info("NVIDIA GPU and container runtime support detected")
			return ModeGPU
		}
		logger.Warn("NVIDIA GPU detected but the container runtime has no GPU support; " +
			"falling back to CPU mode (install nvidia-container-toolkit to enable GPU)")
		return ModeCPU
	}

	logger.Debug("No GPU detected, selecting CPU mode")
	return ModeCPU
}
