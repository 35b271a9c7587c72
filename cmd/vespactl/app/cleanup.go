package app

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// CleanupOptions holds options for the cleanup command
type CleanupOptions struct {
	*GlobalOptions

	// Force skips the confirmation prompt.
	Force bool
}

// NewCleanupCommand creates the cleanup command.
//
// Cleanup invokes the runtime's GLOBAL prune operations: stopped containers,
// unused images and unused volumes. This is not scoped to the search-engine
// workload - it is destructive to any other workloads sharing the same
// runtime, so a confirmation prompt guards it unless --force is given.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for pruning the container runtime
func NewCleanupCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &CleanupOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune unused containers, images and volumes (global!)",
		Long: `Reclaim disk space by pruning the container runtime.

WARNING: this runs the runtime's global prune - ALL stopped containers,
unused images and unused volumes are removed, including those belonging to
other projects on the same Docker daemon. Persistent search-engine data
under the data directory root is not affected (it lives on the host, not in
volumes).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false,
		"do not prompt for confirmation")

	return cmd
}

// runCleanup executes the cleanup command logic.
func runCleanup(ctx context.Context, opts *CleanupOptions) error {
	if !opts.Force {
		ui.Warn("this prunes ALL unused containers, images and volumes on this Docker daemon,")
		ui.Warn("including those of other projects.")
		ui.Info("Continue? [y/N] ")

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			ui.Info("aborted")
			return nil
		}
	}

	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Fail("%v", err)
		return err
	}
	defer rt.Close()

	ui.Step("pruning containers, images and volumes")
	summary := rt.Prune(ctx)

	ui.Success("removed %d containers, %d images, %d volumes",
		summary.ContainersDeleted, summary.ImagesDeleted, summary.VolumesDeleted)
	ui.Success("reclaimed %s", units.HumanSize(float64(summary.SpaceReclaimed)))

	return nil
}
