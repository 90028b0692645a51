// Package cli implements the qryeval command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/larose/qryeval/internal/logger"
)

var (
	logLevel   string
	logFormat  string
	cpuProfile string

	stopProfiler func() error
)

var rootCmd = &cobra.Command{
	Use:   "qryeval",
	Short: "Evaluate structured queries against an inverted index",
	Long: `qryeval builds segment based inverted indexes and evaluates structured
queries (#and, #or, #sum, #wand, #near/N, #window/N, #syn) against them with
the unranked boolean, ranked boolean, BM25 and Indri retrieval models.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
}

func setup(cmd *cobra.Command, args []string) error {
	logger.Setup(logLevel, logFormat, cmd.ErrOrStderr())

	if cpuProfile != "" {
		stop, err := startCpuProfiler(cpuProfile)
		if err != nil {
			return err
		}
		stopProfiler = stop
	}

	return nil
}

func teardown() error {
	if stopProfiler == nil {
		return nil
	}

	stop := stopProfiler
	stopProfiler = nil
	return stop()
}

// Execute runs the command line with ctx as the context of every command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if stopErr := teardown(); err == nil {
		err = stopErr
	}
	return err
}
