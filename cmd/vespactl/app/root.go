// Package app provides the command-line interface implementation for vespactl.
//
// This package contains all CLI commands and their implementations, following
// the Kubernetes CLI architecture pattern with cobra. Commands are organized
// hierarchically with a root command and subcommands, one file per command.
package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchstack/vespactl/internal/config"
	"github.com/searchstack/vespactl/internal/logger"
)

const (
	// cliName is the name of the CLI application
	cliName = "vespactl"

	// cliDescription is the short description shown in help text
	cliDescription = "vespactl - deploy and manage the Vespa search-engine container"
)

// GlobalOptions holds options that are common to all commands
type GlobalOptions struct {
	// DataDir is the data directory root from the --data-dir flag.
	DataDir string

	// Verbose enables debug logging
	Verbose bool

	// viper carries the resolved setting precedence: flag > env > default.
	viper *viper.Viper
}

// NewVespactlCommand creates the root vespactl command with all subcommands.
//
// The root command provides the main entry point for the CLI. It sets up
// global flags, initializes logging and configuration precedence, and
// registers all subcommands. Invoking vespactl with no arguments prints the
// usage text and exits zero.
//
// Returns:
//   - A configured cobra.Command ready for execution
func NewVespactlCommand() *cobra.Command {
	opts := &GlobalOptions{
		viper: viper.New(),
	}
	config.BindDefaults(opts.viper)

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `vespactl is a deployment wrapper for a Vespa-based search engine.

It detects GPU availability on the host, builds and runs the search-engine
workload container through the Docker daemon, and reports container status.
The container runtime is the sole source of truth: vespactl keeps no state
of its own between invocations.

The data directory root defaults to ./data and can be overridden with the
VESPA_DATA_DIR environment variable or the --data-dir flag.`,
		// Runtime failures report through internal/ui; re-printing the usage
		// block for those would bury the actual error. Usage errors (unknown
		// command or flag) still print it, handled below.
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Plain `vespactl` prints help and exits zero; an unrecognized
			// subcommand prints the same help and exits one.
			if len(args) > 0 {
				_ = cmd.Help()
				return fmt.Errorf("unknown command %q for %q", args[0], cliName)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "",
		"data directory root (default: $VESPA_DATA_DIR or ./data)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")

	// Flag beats environment beats default.
	_ = opts.viper.BindPFlag(config.DataDirKey(), cmd.PersistentFlags().Lookup("data-dir"))

	// Unknown or malformed flags are usage errors: print the usage text of
	// the command that rejected the flag before cobra reports the error.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.Println(c.UsageString())
		return err
	})

	cmd.AddCommand(
		NewStartCommand(opts),
		NewStopCommand(opts),
		NewRestartCommand(opts),
		NewLogsCommand(opts),
		NewStatusCommand(opts),
		NewCleanupCommand(opts),
		NewDoctorCommand(opts),
		NewShellCommand(opts),
		NewVersionCommand(opts),
	)

	return cmd
}

// loadConfig resolves the immutable deployment configuration for one command
// invocation.
func loadConfig(opts *GlobalOptions) (*config.Config, error) {
	return config.Load(opts.viper)
}
