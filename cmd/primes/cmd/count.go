package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gostdlib/primes/config"
	"github.com/gostdlib/primes/prime"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	limitPrompt   = "Enter the upper bound of integers to check: "
	threadsPrompt = "Enter the number of threads to use: "
)

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the primes up to an upper bound once",
		Long: `Count the primes in [2, limit] once and print the count and the runtime in
microseconds. Values not given by flag or environment are prompted for on stdin.`,
		RunE: a.runCount,
	}
	addCountFlags(cmd)
	return cmd
}

func addCountFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64(config.FlagLimit, config.DefaultLimit,
		"Upper bound of integers to check (prompted for if not set)")
	flags.Int64(config.FlagThreads, config.DefaultThreads,
		"Number of threads to use (prompted for if not set)")
	flags.String(config.FlagCollect, prime.CollectLocal.String(),
		"How workers collect primes: local (merged after join) or shared (mutex guarded store)")
	flags.Bool(config.FlagInteractive, true,
		"Prompt on stdin for values that are not set; use the defaults if false")
}

func (a *app) runCount(cmd *cobra.Command, _ []string) error {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.LoadCount(v)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Split(bufio.ScanWords)

	if !cfg.HasLimit {
		if cfg.Limit, err = prompt(out, in, limitPrompt, config.FlagLimit); err != nil {
			return err
		}
	}
	if !cfg.HasThreads {
		if cfg.Threads, err = prompt(out, in, threadsPrompt, config.FlagThreads); err != nil {
			return err
		}
	}

	if cfg.Limit < 2 {
		return prime.Errorf(prime.TypeInvalidInput, "upper bound must be >= 2, got %d", cfg.Limit)
	}

	res, err := prime.Count(cmd.Context(), cfg.Limit, cfg.Threads, prime.WithCollect(cfg.Collect))
	if err != nil {
		return err
	}
	if res.Clamped {
		a.logger.Warn("thread count clamped to the number of candidates",
			zap.Int64("requested", res.Requested),
			zap.Int64("threads", res.Threads),
			zap.Int64("limit", res.Limit),
		)
	}
	a.logger.Info("count finished",
		zap.Int64("limit", res.Limit),
		zap.Int64("threads", res.Threads),
		zap.Stringer("collect", res.Collect),
		zap.Int("count", res.Count),
		zap.Duration("elapsed", res.Elapsed),
	)

	fmt.Fprintf(out, "%d primes were found.\n", res.Count)
	fmt.Fprintf(out, "Runtime is %d microseconds.\n", res.Elapsed.Microseconds())
	return nil
}

// prompt writes "msg" to w and reads the next whitespace separated integer from in.
func prompt(w io.Writer, in *bufio.Scanner, msg, name string) (int64, error) {
	fmt.Fprint(w, msg)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return 0, fmt.Errorf("reading %s: %w", name, err)
		}
		return 0, prime.Errorf(prime.TypeInvalidInput, "%s is required", name)
	}
	return config.ParseInt(name, in.Text())
}
