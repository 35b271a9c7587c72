package runtime

import (
	"context"
	"os/exec"

	"github.com/searchstack/vespactl/internal/logger"
)

// ComposeCommand is the resolved container-orchestration command as an argv
// prefix, e.g. ["docker", "compose"] or ["docker-compose"].
type ComposeCommand []string

// String renders the command the way a user would type it.
func (c ComposeCommand) String() string {
	out := ""
	for i, part := range c {
		if i > 0 {
			out += " "
		}
		out += part
	}
	return out
}

// composeCandidates lists the two accepted forms of the compose command in
// probe order: the newer CLI plugin first, the legacy standalone binary as
// fallback.
var composeCandidates = []ComposeCommand{
	{"docker", "compose"},
	{"docker-compose"},
}

// runProbe executes a candidate probe command, discarding its output. It is a
// package variable so tests can substitute a fake without spawning processes.
var runProbe = func(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

// ResolveComposeCommand probes for a working compose command and returns the
// first candidate that responds to `version`.
//
// Compose-based flows depend entirely on this command, so when neither form
// responds the error is a fatal RuntimeUnavailableError.
func ResolveComposeCommand(ctx context.Context) (ComposeCommand, error) {
	var lastErr error
	for _, candidate := range composeCandidates {
		probeArgv := append(append(ComposeCommand{}, candidate...), "version")
		if err := runProbe(ctx, probeArgv); err != nil {
			logger.Debug("Compose candidate %q not available: %v", candidate.String(), err)
			lastErr = err
			continue
		}
		logger.Debug("Resolved compose command: %s", candidate.String())
		return candidate, nil
	}
	return nil, &RuntimeUnavailableError{Err: lastErr}
}
