package prime

import (
	"context"
	"fmt"
	"time"

	"github.com/gostdlib/internals/otel/span"
	"github.com/gostdlib/primes/goroutines"
	"github.com/gostdlib/primes/goroutines/limited"
	"github.com/gostdlib/primes/prim/slices"
	"github.com/gostdlib/primes/prim/wait"
	"github.com/johnsiilver/calloptions"
	"go.opentelemetry.io/otel/codes"
)

// Result is the outcome of one Count.
type Result struct {
	// Limit is the upper bound that was searched.
	Limit int64
	// Requested is the number of workers that were asked for.
	Requested int64
	// Threads is the number of workers that ran, see EffectiveThreads().
	Threads int64
	// Clamped is set when Threads < Requested.
	Clamped bool
	// Collect is how workers collected primes.
	Collect Collect
	// Count is the number of primes in [2, Limit].
	Count int
	// Primes holds the primes found if WithPrimes() was passed. For CollectLocal
	// they are ascending, for CollectShared they are in the order workers appended them.
	Primes []int64
	// Elapsed is the wall clock time from partitioning until every worker finished.
	Elapsed time.Duration
}

// caller names Count in span events and pool submissions.
const caller = "prime.Count"

// batch is a Range and the primes a worker found in it.
type batch struct {
	r      Range
	primes []int64
}

// Count counts the primes in [2, limit] using "threads" workers that each scan one
// Range from Partition(). Count blocks until every worker is done and either returns
// a complete Result or an error, never a partial count.
//
// threads < 1 returns an InvalidInput error. limit > MaxLimit or threads > MaxThreads
// return an OutOfRange error.
// A limit < 2 has no candidates and returns a zero Count.
func Count(ctx context.Context, limit, threads int64, options ...Option) (Result, error) {
	ctx, spanner := span.New(ctx, caller)
	if spanner.Span != nil {
		defer spanner.End()
	}

	res, err := count(ctx, limit, threads, options)
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return res, err
	}
	if err != nil {
		spanner.Status(codes.Error, err.Error())
		spanner.Error(err)
		return Result{}, err
	}

	spanner.Event(
		"prime.Count() done",
		"limit", res.Limit,
		"threads", res.Threads,
		"clamped", res.Clamped,
		"collect", res.Collect.String(),
		"count", res.Count,
		"elapsed_ns", res.Elapsed,
	)
	return res, nil
}

func count(ctx context.Context, limit, threads int64, options []Option) (Result, error) {
	opts := &countOptions{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		return Result{}, err
	}

	if threads < 1 {
		return Result{}, Errorf(TypeInvalidInput, "number of threads must be >= 1, got %d", threads)
	}
	if threads > MaxThreads {
		return Result{}, Errorf(TypeOutOfRange, "number of threads %d is above the maximum of %d", threads, MaxThreads)
	}
	if limit > MaxLimit {
		return Result{}, Errorf(TypeOutOfRange, "limit %d is above the maximum of %d", limit, MaxLimit)
	}

	res := Result{
		Limit:     limit,
		Requested: threads,
		Threads:   EffectiveThreads(limit, threads),
		Collect:   opts.collect,
	}
	// Without candidates there is nothing to clamp.
	res.Clamped = limit >= 2 && res.Threads < res.Requested

	start := time.Now()

	ranges := Partition(limit, threads)
	if len(ranges) == 0 {
		res.Elapsed = time.Since(start)
		return res, nil
	}

	p, submit := opts.pool, opts.submit
	if p == nil {
		lp, err := limited.New("", len(ranges))
		if err != nil {
			return Result{}, err
		}
		defer lp.Close()
		p = lp
		submit = []goroutines.SubmitOption{limited.Caller(caller)}
	}

	var err error
	switch opts.collect {
	case CollectShared:
		err = countShared(ctx, ranges, p, submit, opts.keepPrimes, &res)
	default:
		err = countLocal(ctx, ranges, p, submit, opts.keepPrimes, &res)
	}
	if err != nil {
		return Result{}, fmt.Errorf("counting primes to %d with %d threads: %w", limit, res.Threads, err)
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// countLocal has each worker fill in its own batch, then merges the batches.
func countLocal(ctx context.Context, ranges []Range, p goroutines.Pool, submit []goroutines.SubmitOption, keep bool, res *Result) error {
	batches := make([]batch, len(ranges))
	for i, r := range ranges {
		batches[i].r = r
	}

	err := slices.Access(
		ctx,
		batches,
		func(ctx context.Context, i int, b batch, m slices.Modifier[batch]) error {
			var err error
			b.primes, err = Scan(ctx, b.r)
			m(b)
			return err
		},
		slices.WithPool(p),
		slices.WithPoolOptions(submit...),
		slices.WithName(caller),
	)
	if err != nil {
		return err
	}

	for _, b := range batches {
		res.Count += len(b.primes)
	}
	if keep {
		res.Primes = make([]int64, 0, res.Count)
		for _, b := range batches {
			res.Primes = append(res.Primes, b.primes...)
		}
	}
	return nil
}

// countShared has every worker append to one Store.
func countShared(ctx context.Context, ranges []Range, p goroutines.Pool, submit []goroutines.SubmitOption, keep bool, res *Result) error {
	store := &Store{}
	g := wait.Group{Name: caller, Pool: p, PoolOptions: submit}

	for _, r := range ranges {
		r := r
		g.Go(
			ctx,
			func(ctx context.Context) error {
				return ScanInto(ctx, r, store)
			},
		)
	}
	if err := g.Wait(ctx); err != nil {
		return err
	}

	res.Count = store.Len()
	if keep {
		res.Primes = store.Values()
	}
	return nil
}
