package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gostdlib/primes/config"
	"github.com/gostdlib/primes/harness"
	"github.com/gostdlib/primes/prime"
	"github.com/gostdlib/primes/report"
	"github.com/spf13/cobra"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the prime count across a sweep of thread counts",
		Long: `Run the prime count --iterations times for every thread count in --threads
and report each run's duration, the average per thread count and the list of
averages. Every count is checked against a sieve unless --verify=false.

Backends:
	goroutine  a fresh goroutine per chunk for every run
	pooled     a goroutine pool per thread count, reused across iterations
	tunny      a github.com/Jeffail/tunny pool per thread count, reused across iterations`,
		RunE: a.runBench,
	}

	flags := cmd.Flags()
	flags.Int64(config.FlagLimit, harness.DefaultLimit,
		"Upper bound of integers to check")
	flags.Int(config.FlagIterations, harness.DefaultIterations,
		"Runs per thread count")
	flags.String(config.FlagThreads, joinInts(harness.DefaultThreadCounts),
		"Comma separated thread counts to sweep")
	flags.String(config.FlagBackend, string(harness.BackendGoroutine),
		"How workers run: goroutine, pooled or tunny")
	flags.String(config.FlagCollect, prime.CollectLocal.String(),
		"How workers collect primes: local or shared")
	flags.Bool(config.FlagVerify, true,
		"Check every count against a sieve")
	flags.String(config.FlagFormat, string(report.FormatText),
		"Output format: text, json or csv")

	return cmd
}

func (a *app) runBench(cmd *cobra.Command, _ []string) error {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, format, err := config.LoadBench(v)
	if err != nil {
		return err
	}

	r, err := harness.New(cfg, a.logger)
	if err != nil {
		return err
	}

	var stream *report.Stream
	if format == report.FormatText {
		stream = report.NewStream(cmd.OutOrStdout())
		r.Observe(stream)
	}

	rep, err := r.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if stream != nil {
		return stream.Summary(rep)
	}
	return report.Write(cmd.OutOrStdout(), format, rep)
}

func joinInts(in []int64) string {
	s := make([]string, len(in))
	for i, v := range in {
		s[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(s, ",")
}
