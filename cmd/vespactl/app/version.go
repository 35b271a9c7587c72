package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, injected at link time:
//
//	go build -ldflags "-X .../app.Version=v0.3.0 -X .../app.GitCommit=abc1234"
var (
	// Version is the semantic version of the vespactl binary.
	Version = "dev"

	// GitCommit is the short commit hash the binary was built from.
	GitCommit = "unknown"

	// BuildDate is the UTC build timestamp.
	BuildDate = "unknown"
)

// NewVersionCommand creates the version command.
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for displaying version info
func NewVersionCommand(_ *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s (commit %s, built %s)\n", cliName, Version, GitCommit, BuildDate)
		},
	}

	return cmd
}
