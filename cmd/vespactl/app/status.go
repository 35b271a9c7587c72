package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/config"
	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// StatusOptions holds options for the status command
type StatusOptions struct {
	*GlobalOptions
}

// NewStatusCommand creates the status command.
//
// The status command reports whether the workload container is running and,
// if so, its basic runtime metadata: name, state, uptime, port mappings and
// the deployment mode. Status always exits zero; "not running" is a report,
// not a failure.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for reporting deployment status
func NewStatusCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &StatusOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show search-engine container status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), opts)
		},
	}

	return cmd
}

// runStatus executes the status command logic. Always exits zero.
func runStatus(ctx context.Context, opts *StatusOptions) error {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		ui.Fail("invalid configuration: %v", err)
		return nil
	}

	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Fail("%v", err)
		return nil
	}
	defer rt.Close()

	printStatus(ctx, rt, cfg)
	return nil
}

// printStatus renders the status report. Shared with the start command,
// which prints the same report after a successful deployment.
func printStatus(ctx context.Context, rt *runtime.Runtime, cfg *config.Config) {
	info, err := rt.Inspect(ctx, cfg.ContainerName)
	if err != nil {
		ui.Fail("could not query the container runtime: %v", err)
		return
	}

	if info == nil || info.State == nil || !info.State.Running {
		if info != nil && info.State != nil {
			ui.Info("✗ container %s exists but is not running (state: %s)",
				cfg.ContainerName, info.State.Status)
		} else {
			ui.Info("✗ container %s is not running", cfg.ContainerName)
		}
		ui.Hint("start it with: %s start", cliName)
		return
	}

	ports := runtime.PortMappings(info)
	sort.Strings(ports)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", cfg.ContainerName)
	fmt.Fprintf(w, "Status:\t%s\n", info.State.Status)
	if uptime := runtime.Uptime(info); uptime > 0 {
		fmt.Fprintf(w, "Uptime:\t%s\n", formatDuration(uptime))
	}
	for i, p := range ports {
		if i == 0 {
			fmt.Fprintf(w, "Ports:\t%s\n", p)
		} else {
			fmt.Fprintf(w, "\t%s\n", p)
		}
	}
	fmt.Fprintf(w, "Mode:\t%s\n", runtime.ModeFromInspect(info))
	w.Flush()

	ui.Blank()
	ui.Success("search engine is running")
	ui.Hint("query API:  http://localhost:%d", cfg.QueryPort)
	ui.Hint("config API: http://localhost:%d", cfg.ConfigServerPort)
}
