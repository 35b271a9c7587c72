package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// StopOptions holds options for the stop command
type StopOptions struct {
	*GlobalOptions
}

// NewStopCommand creates the stop command.
//
// The stop command stops and removes the workload container. It is
// idempotent and never fails: stopping a deployment that is not running is
// reported informationally and exits zero.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for stopping the deployment
func NewStopCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &StopOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop and remove the search-engine container",
		Long: `Stop the search-engine deployment.

The workload container is stopped with a grace period and then removed
together with its anonymous volumes. The persistent data under the data
directory root is untouched. "Already stopped" is not a failure - stop
always exits zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doStop(cmd.Context(), opts.GlobalOptions)
			return nil
		},
	}

	return cmd
}

// doStop performs the idempotent stop+remove. Shared with restart. All
// failures are reported inline and swallowed; stop never aborts.
func doStop(ctx context.Context, globalOpts *GlobalOptions) {
	cfg, err := loadConfig(globalOpts)
	if err != nil {
		ui.Warn("invalid configuration: %v", err)
		return
	}

	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Warn("%v", err)
		return
	}
	defer rt.Close()

	found, err := rt.StopAndRemove(ctx, cfg.ContainerName)
	if err != nil {
		ui.Warn("could not query the container runtime: %v", err)
		return
	}

	if found {
		ui.Success("container %s stopped and removed", cfg.ContainerName)
	} else {
		ui.Info("container %s is not running, nothing to stop", cfg.ContainerName)
	}
}
