package app

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/searchstack/vespactl/internal/logger"
	"github.com/searchstack/vespactl/internal/runtime"
	"github.com/searchstack/vespactl/internal/ui"
)

// ShellOptions holds options for the shell command
type ShellOptions struct {
	*GlobalOptions

	// Command is the program to run inside the container.
	Command string
}

// NewShellCommand creates the shell command.
//
// The shell command opens an interactive shell inside the running workload
// container for ad-hoc inspection (index files, engine logs, vespa CLI
// tools). It requires a running container and a terminal.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for an interactive container shell
func NewShellCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ShellOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive shell in the search-engine container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "command", "/bin/bash",
		"program to run inside the container")

	return cmd
}

// runShell executes the shell command logic.
//
// The exec session is driven through the docker CLI under a PTY so the
// container side sees a real terminal (line editing, signals, colors). The
// local terminal is switched to raw mode for the duration of the session and
// restored afterwards.
func runShell(ctx context.Context, opts *ShellOptions) error {
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

	info, err := rt.Inspect(ctx, cfg.ContainerName)
	if err != nil {
		ui.Fail("%v", err)
		return err
	}
	if info == nil || info.State == nil || !info.State.Running {
		err := &runtime.NotRunningError{Container: cfg.ContainerName}
		ui.Fail("%v", err)
		ui.Hint("start it with: %s start", cliName)
		return err
	}

	execCmd := exec.CommandContext(ctx, "docker", "exec", "-it",
		cfg.ContainerName, opts.Command)

	ptmx, err := pty.Start(execCmd)
	if err != nil {
		ui.Fail("failed to start shell: %v", err)
		return err
	}
	defer ptmx.Close()

	// Track terminal size changes for the lifetime of the session.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logger.Debug("Failed to resize pty: %v", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH // initial size
	defer func() { signal.Stop(winch); close(winch) }()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		ui.Fail("failed to set raw terminal mode: %v", err)
		return err
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return execCmd.Wait()
}
