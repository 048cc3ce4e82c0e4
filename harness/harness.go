package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gostdlib/primes/goroutines"
	"github.com/gostdlib/primes/goroutines/pooled"
	"github.com/gostdlib/primes/goroutines/workers"
	"github.com/gostdlib/primes/prime"
	"go.uber.org/zap"
)

// poolName is the registered name of the pools the harness creates.
const poolName = "harness"

// countFunc is the signature of prime.Count.
type countFunc func(ctx context.Context, limit, threads int64, options ...prime.Option) (prime.Result, error)

// Observer is told about progress while a Runner runs. Calls are made from the
// goroutine calling Run(), in the order runs finish.
type Observer interface {
	// Record is called after every run.
	Record(rec Record)
	// Sweep is called after every run of a thread count has finished.
	Sweep(s Sweep)
}

// Runner runs the sweep described by a Config.
type Runner struct {
	cfg       Config
	logger    *zap.Logger
	count     countFunc
	observers []Observer
}

// New creates a Runner. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendGoroutine
	}

	return &Runner{cfg: cfg, logger: logger, count: prime.Count}, nil
}

// Observe adds an Observer that is told about every Record and Sweep as Run()
// produces them. It must not be called while Run() is running.
func (r *Runner) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

// Run runs Config.Iterations computations for every thread count in Config.ThreadCounts.
// If Config.Verify is set, every count is checked against prime.ReferenceCount() and
// the first disagreement stops the sweep with a Mismatch error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	rep := Report{
		RunID:      uuid.NewString(),
		Limit:      r.cfg.Limit,
		Iterations: r.cfg.Iterations,
		Backend:    r.cfg.Backend,
		Collect:    r.cfg.Collect.String(),
		Verified:   r.cfg.Verify,
		Started:    time.Now(),
	}
	logger := r.logger.With(zap.String("run_id", rep.RunID))

	want := -1
	if r.cfg.Verify {
		var err error
		want, err = prime.ReferenceCount(r.cfg.Limit)
		if err != nil {
			return Report{}, fmt.Errorf("cannot verify counts: %w", err)
		}
	}

	logger.Info("starting sweep",
		zap.Int64("limit", r.cfg.Limit),
		zap.Int("iterations", r.cfg.Iterations),
		zap.Int64s("thread_counts", r.cfg.ThreadCounts),
		zap.String("backend", string(r.cfg.Backend)),
		zap.Stringer("collect", r.cfg.Collect),
		zap.Bool("verify", r.cfg.Verify),
	)

	for _, threads := range r.cfg.ThreadCounts {
		sweep, err := r.sweep(ctx, logger, rep.RunID, threads, want)
		if err != nil {
			return Report{}, err
		}
		rep.Sweeps = append(rep.Sweeps, sweep)
		for _, o := range r.observers {
			o.Sweep(sweep)
		}
		if rep.Count == 0 && len(sweep.Runs) > 0 {
			rep.Count = sweep.Runs[0].Count
		}

		logger.Info("thread count finished",
			zap.Int64("threads", threads),
			zap.Duration("avg", sweep.Avg),
			zap.Duration("min", sweep.Min),
			zap.Duration("max", sweep.Max),
		)
	}

	rep.Elapsed = time.Since(rep.Started)
	logger.Info("sweep complete", zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

// sweep runs every iteration for one thread count. Pools for the reusing backends
// are created before the first iteration so their setup is never timed.
func (r *Runner) sweep(ctx context.Context, logger *zap.Logger, runID string, threads int64, want int) (Sweep, error) {
	opts := []prime.Option{prime.WithCollect(r.cfg.Collect)}

	p, submit, err := r.newPool(prime.EffectiveThreads(r.cfg.Limit, threads))
	if err != nil {
		return Sweep{}, err
	}
	if p != nil {
		defer p.Close()
		opts = append(opts, prime.WithPool(p, submit...))
	}

	sweep := Sweep{Threads: threads}
	for i := 1; i <= r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Sweep{}, err
		}

		res, err := r.count(ctx, r.cfg.Limit, threads, opts...)
		if err != nil {
			return Sweep{}, err
		}

		rec := Record{
			RunID:     runID,
			Threads:   threads,
			Iteration: i,
			Limit:     r.cfg.Limit,
			Count:     res.Count,
			Duration:  res.Elapsed,
		}
		logger.Debug("run finished",
			zap.Int64("threads", threads),
			zap.Int64("effective_threads", res.Threads),
			zap.Int("iteration", i),
			zap.Int("count", res.Count),
			zap.Duration("duration", res.Elapsed),
		)

		if want >= 0 && res.Count != want {
			return Sweep{}, prime.Errorf(
				prime.TypeMismatch,
				"threads %d iteration %d counted %d primes to %d, reference counted %d",
				threads, i, res.Count, r.cfg.Limit, want,
			)
		}
		sweep.add(rec)
		for _, o := range r.observers {
			o.Record(rec)
		}
	}
	return sweep, nil
}

// newPool returns the Pool the backend reuses across iterations and the options to
// submit to it with, a nil Pool if the backend starts fresh goroutines for every run.
func (r *Runner) newPool(size int64) (goroutines.Pool, []goroutines.SubmitOption, error) {
	switch r.cfg.Backend {
	case BackendPooled:
		p, err := pooled.New(poolName, int(size))
		if err != nil {
			return nil, nil, err
		}
		return p, []goroutines.SubmitOption{pooled.Caller("harness.Runner")}, nil
	case BackendTunny:
		p, err := workers.New(poolName, int(size))
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	}
	return nil, nil, nil
}
