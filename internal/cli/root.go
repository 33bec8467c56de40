package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/logging"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"
	LogLevel   string

	Config *Config
	Log    *logrus.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shade CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "shade",
		Short:   "shade - GPU intrinsic catalog tooling",
		Long:    "Inspect the HLSL intrinsic catalog, verify its invariants, and resolve kernel call sites to overloads.",
		Version: ir.ToolVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./.shade.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewManifestCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))

	return cmd
}

// resolve loads the configuration and logger for the running command.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	diag := opts.formatter(cmd).Diag()
	cfg, err := LoadConfig(opts.ConfigFile, cmd.Flags())
	if err != nil {
		fmt.Fprintf(diag, "Error [%s]: %v\n", ErrCodeInvalidFlag, err)
		return WrapExitError(ExitCommandError, "configuration", err)
	}
	log, err := logging.New(diag, cfg.Log.Level, cfg.Verbose)
	if err != nil {
		fmt.Fprintf(diag, "Error [%s]: %v\n", ErrCodeInvalidFlag, err)
		return WrapExitError(ExitCommandError, "configuration", err)
	}

	opts.Config = cfg
	opts.Format = cfg.Format
	opts.Verbose = cfg.Verbose
	opts.LogLevel = cfg.Log.Level
	opts.Log = log
	log.WithField("format", cfg.Format).Debug("configuration resolved")
	return nil
}

// formatter returns the output formatter for a command.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// Execute runs the command tree and returns the process exit code. Errors
// the commands have not reported themselves (unknown commands, bad
// arguments) are printed to stderr and count as command errors.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return GetExitCode(err)
}
