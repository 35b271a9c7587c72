package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// LogsOptions holds options for the logs command
type LogsOptions struct {
	*GlobalOptions

	// Follow streams new log lines until interrupted (default true).
	Follow bool
}

// NewLogsCommand creates the logs command.
//
// The logs command attaches to the workload container's live log stream and
// blocks until interrupted. Invoking it with no running container fails with
// a non-zero exit and no attach attempt.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for streaming workload logs
func NewLogsCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &LogsOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream logs from the search-engine container",
		Long: `Stream logs from the running search-engine container.

The stream includes all historical output and follows new lines until
interrupted with Ctrl+C. Use --follow=false to print the existing logs and
return immediately.`,
		Example: `  # Follow logs (press Ctrl+C to stop)
  vespactl logs

  # Dump existing logs and exit
  vespactl logs --follow=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", true,
		"follow log output (default: true)")

	return cmd
}

// runLogs executes the logs command logic.
func runLogs(ctx context.Context, opts *LogsOptions) error {
	cfg, err := loadConfig(opts.GlobalOptions)
	if err != nil {
		ui.Fail("invalid configuration: %v", err)
		return err
	}

	rt, err := runtime.NewRuntime()
	if err != nil {
		ui.Fail("%v", err)
		return err
	}
	defer rt.Close()

	// An interrupt cancels the context, which terminates the attached
	// stream; the CLI adds no timeout of its own.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = rt.StreamLogs(ctx, cfg.ContainerName, opts.Follow, os.Stdout, os.Stderr)
	if err != nil {
		var notRunning *runtime.NotRunningError
		if errors.As(err, &notRunning) {
			ui.Fail("%v", err)
			ui.Hint("start it with: %s start", cliName)
			return err
		}
		ui.Fail("%v", err)
		return err
	}

	return nil
}
