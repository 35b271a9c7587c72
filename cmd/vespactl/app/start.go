package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/logger"
	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// StartOptions holds options for the start command
type StartOptions struct {
	*GlobalOptions

	// ForceGPU selects GPU mode without probing. Wins over ForceCPU.
	ForceGPU bool

	// ForceCPU selects CPU mode without probing.
	ForceCPU bool
}

// NewStartCommand creates the start command.
//
// The start command runs the full deployment sequence: mode resolution,
// environment setup, permission alignment, image build and container run.
//
// Usage:
//
//	vespactl start [--force-gpu|--force-cpu]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for starting the deployment
func NewStartCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &StartOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Build and start the search-engine container",
		Long: `Start the search-engine deployment.

The start command resolves the deployment mode (GPU when an NVIDIA GPU and a
GPU-capable container runtime are both present, CPU otherwise), prepares the
data directory tree, aligns its ownership with the service account inside the
workload image, builds the mode-specific image and runs the container
detached with the query and config-server ports published.

Mode Selection:
  --force-gpu and --force-cpu skip detection entirely. When both are given,
  --force-gpu wins. Without flags the mode is auto-detected conservatively:
  a GPU is only used when the container runtime can actually schedule it.

The image is rebuilt on every start; Docker's layer cache keeps this cheap
when nothing changed.`,
		Example: `  # Start with auto-detected mode
  vespactl start

  # Force CPU mode on a GPU host
  vespactl start --force-cpu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ForceGPU, "force-gpu", false,
		"force GPU mode, skipping detection")
	cmd.Flags().BoolVar(&opts.ForceCPU, "force-cpu", false,
		"force CPU mode, skipping detection")

	return cmd
}

// runStart executes the full startup sequence.
func runStart(ctx context.Context, opts *StartOptions) error {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		ui.Fail("invalid configuration: %v", err)
		return err
	}

	// Environment-config file: created from template on first run, never
	// overwritten afterwards. Failures here are not fatal.
	if created, err := cfg.EnsureEnvFile(); err != nil {
		ui.Warn("could not create %s (continuing): %v", cfg.EnvFile, err)
	} else if created {
		ui.Success("created %s from %s", cfg.EnvFile, cfg.EnvTemplate)
	}
	if err := cfg.LoadEnvFile(); err != nil {
		ui.Warn("could not load %s (continuing): %v", cfg.EnvFile, err)
	}

	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Fail("%v", err)
		return err
	}
	defer rt.Close()

	mode := runtime.ResolveMode(ctx, runtime.ModeOptions{
		ForceGPU: opts.ForceGPU,
		ForceCPU: opts.ForceCPU,
	}, runtime.NewHostProbe(rt.Client()))
	ui.Step("deployment mode: %s", mode)

	ui.Step("preparing data directories under %s", cfg.DataDir)
	if err := runtime.EnsureDataLayout(cfg); err != nil {
		ui.Fail("data directory setup failed: %v", err)
		return err
	}

	ui.Step("aligning data directory ownership")
	rt.AlignPermissions(ctx, cfg)

	// A leftover container under the reserved name would make the run fail
	// with a name conflict; replace it.
	if found, err := rt.StopAndRemove(ctx, cfg.ContainerName); err != nil {
		ui.Fail("could not check for an existing container: %v", err)
		return err
	} else if found {
		ui.Step("replaced existing %s container", cfg.ContainerName)
	}

	ui.Step("building %s image (%s)", mode, cfg.ImageTag)
	dockerfile := cfg.DockerfileForMode(mode == runtime.ModeGPU)
	if err := rt.BuildImage(ctx, cfg.BuildContext, dockerfile, cfg.ImageTag, os.Stdout); err != nil {
		ui.Fail("image build failed: %v", err)
		return err
	}
	ui.Success("image built: %s", cfg.ImageTag)

	ui.Step("starting container %s", cfg.ContainerName)
	containerID, err := rt.RunWorkload(ctx, cfg, mode)
	if err != nil {
		ui.Fail("container start failed: %v", err)
		return err
	}
	ui.Success("container running: %s", containerID[:12])
	ui.Blank()

	logger.Debug("Startup sequence complete, printing status")
	printStatus(ctx, rt, cfg)

	return nil
}
