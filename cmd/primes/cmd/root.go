// Package cmd holds the cobra commands of the primes CLI.
package cmd

import (
	"fmt"
	"io"

	"github.com/gostdlib/primes/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds what the commands share once flags are parsed.
type app struct {
	logger *zap.Logger
}

// NewRootCmd returns the primes root command. Without a subcommand it runs a
// single count, the same as "primes count".
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "primes",
		Short: "Count primes with parallel trial division",
		Long: `primes counts the prime numbers up to an upper bound by splitting the
range into one contiguous chunk per worker and testing every candidate with
trial division. It prompts for the upper bound and the number of threads unless
they are given with --limit and --threads (or PRIMES_LIMIT and PRIMES_THREADS).

Use "primes bench" to time the computation across a sweep of thread counts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(cmd.Flags())
			if err != nil {
				return err
			}
			a.logger, err = newLogger(cmd.ErrOrStderr(), v.GetString(config.FlagLogLevel))
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.logger.Sync()
		},
		RunE: a.runCount,
	}
	root.PersistentFlags().String(config.FlagLogLevel, "warn", "Log level: debug, info, warn, error")
	addCountFlags(root)

	root.AddCommand(newCountCmd(a), newBenchCmd(a))
	return root
}

// newLogger returns a console zap.Logger writing to w at "level".
func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad --%s: %w", config.FlagLogLevel, err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}
