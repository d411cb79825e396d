package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queue-sim/sim"
)

var (
	cfgFile  string // Config file layered under env and flags
	logLevel string // Log verbosity level
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitCalendarEmpty = 1 // the event calendar ran dry
	ExitQueueOverflow = 2 // an arrival found the wait queue full
	ExitFailure       = 3 // configuration, I/O, or any other error
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "queue-sim",
	Short:         "Discrete-event simulator for the M/M/1 single-server queue",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("%w: invalid log level %q", sim.ErrInvalidConfig, logLevel)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI and exits with ExitCode of the result.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logrus.Error(err)
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, sim.ErrCalendarEmpty):
		return ExitCalendarEmpty
	case errors.Is(err, sim.ErrQueueOverflow):
		return ExitQueueOverflow
	default:
		return ExitFailure
	}
}

// init sets up persistent flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replicateCmd)
	rootCmd.AddCommand(erlangCmd)
}
