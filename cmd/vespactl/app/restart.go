package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/config"
	"github.com/searchstack/vespactl/internal/ui"
)

// RestartOptions holds options for the restart command
type RestartOptions struct {
	*GlobalOptions

	// ForceGPU and ForceCPU are forwarded to the start phase.
	ForceGPU bool
	ForceCPU bool
}

// NewRestartCommand creates the restart command.
//
// Restart is stop, a fixed cooldown, then start - in that order, even when
// stop reports that nothing was running. The cooldown gives the runtime time
// to release the published port bindings; no readiness polling is performed.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for restarting the deployment
func NewRestartCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &RestartOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the search-engine container",
		Long: `Restart the search-engine deployment.

Equivalent to stop, a short pause while the runtime releases the port
bindings, then a full start (including image rebuild and mode resolution).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doStop(cmd.Context(), opts.GlobalOptions)

			ui.Step("waiting %s for the runtime to release ports", config.RestartCooldown)
			time.Sleep(config.RestartCooldown)

			return runStart(cmd.Context(), &StartOptions{
				GlobalOptions: opts.GlobalOptions,
				ForceGPU:      opts.ForceGPU,
				ForceCPU:      opts.ForceCPU,
			})
		},
	}

	cmd.Flags().BoolVar(&opts.ForceGPU, "force-gpu", false,
		"force GPU mode, skipping detection")
	cmd.Flags().BoolVar(&opts.ForceCPU, "force-cpu", false,
		"force CPU mode, skipping detection")

	return cmd
}
