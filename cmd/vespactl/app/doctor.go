package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// DoctorOptions holds options for the doctor command
type DoctorOptions struct {
	*GlobalOptions
}

// NewDoctorCommand creates the doctor command.
//
// Doctor diagnoses the deployment environment: daemon reachability, which
// form of the compose command is installed, GPU presence, GPU runtime
// support and data directory writability. The writability check creates the
// data root if it is missing and probes it with a throwaway marker file.
// Doctor always exits zero - the findings are the output.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for environment diagnosis
func NewDoctorCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &DoctorOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the deployment environment",
		Long: `Check every external precondition of the deployment.

Reports on the Docker daemon, the compose command (CLI plugin vs standalone
binary), the NVIDIA management interface, GPU support in the container
runtime, and whether the data directory root is writable. The writability
check creates the data directory root if it does not exist yet (the same
directory start would create) and removes its probe file afterwards; nothing
else is modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runDoctor(cmd.Context(), opts)
			return nil
		},
	}

	return cmd
}

// runDoctor executes the environment checks and prints one line per finding.
func runDoctor(ctx context.Context, opts *DoctorOptions) {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		ui.Fail("configuration: %v", err)
		return
	}

	// Docker daemon
	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Fail("docker daemon: %v", err)
		ui.Hint("is the Docker daemon running and DOCKER_HOST correct?")
	} else {
		defer rt.Close()
		if version, err := rt.Client().ServerVersion(ctx); err != nil {
			ui.Warn("docker daemon: reachable, but version query failed: %v", err)
		} else {
			ui.Success("docker daemon: %s (API %s)", version.Version, version.APIVersion)
		}
	}

	// Compose command (plugin form preferred, standalone binary as fallback)
	if compose, err := runtime.ResolveComposeCommand(ctx); err != nil {
		ui.Warn("compose command: neither 'docker compose' nor 'docker-compose' responds")
	} else {
		ui.Success("compose command: %s", compose)
	}

	// GPU capability
	if rt != nil {
		probe := runtime.NewHostProbe(rt.Client())
		if probe.HasGPU(ctx) {
			ui.Success("nvidia gpu: management interface responds")
			if probe.RuntimeSupportsGPU(ctx) {
				ui.Success("gpu runtime: nvidia runtime registered with the daemon")
			} else {
				ui.Warn("gpu runtime: nvidia runtime not registered (install nvidia-container-toolkit)")
			}
		} else {
			ui.Info("✗ nvidia gpu: not detected (CPU mode will be used)")
		}
	}

	// Data directory writability
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		ui.Fail("data directory: cannot create %s: %v", cfg.DataDir, err)
		return
	}
	marker := filepath.Join(cfg.DataDir, ".vespactl-write-check")
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		ui.Fail("data directory: %s is not writable: %v", cfg.DataDir, err)
	} else {
		os.Remove(marker)
		ui.Success("data directory: %s is writable", cfg.DataDir)
	}
}
