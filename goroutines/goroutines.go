/*
Package goroutines provides the interfaces and definitions that the goroutine pools
used to run prime workers must implement/use. Implementations are in sub-directories
and can be used directly without using this package.

Every pool runs Jobs. A prime computation submits one Job per search range and then
waits for all of them:

	ctx := context.Background()
	p, err := pooled.New("primes", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer p.Close()

	for _, r := range prime.Partition(limit, int64(p.Cap())) {
		r := r

		p.Submit(
			ctx,
			func(ctx context.Context) {
				found, _ := prime.Scan(ctx, r)
				fmt.Println(r, len(found))
			},
		)
	}

	p.Wait()

Pools that are created and torn down for a single computation ("limited") behave like
spawning a thread per range. Pools that live across computations ("pooled", "workers")
reuse their goroutines, which keeps goroutine setup out of benchmark timings.
*/
package goroutines

import (
	"context"

	"github.com/gostdlib/primes/goroutines/internal/pool"
)

// Job is a job for a Pool.
type Job func(ctx context.Context)

// SubmitOption is an option for Pool.Submit().
type SubmitOption func(opt *pool.SubmitOptions) error

// Pool is the minimum interface that any goroutine pool must implement.
type Pool interface {
	// Submit submits a Job to be run.
	Submit(ctx context.Context, runner Job, options ...SubmitOption) error
	// Close closes the goroutine pool. This will call Wait() before it closes.
	Close()
	// Wait will wait for all goroutines to finish. This should only be called if
	// you have stopped calling Submit().
	Wait()
	// Cap is the number of Jobs the pool will run concurrently.
	Cap() int
	// Running returns how many goroutines are currently in flight.
	Running() int
	// GetName returns the registered name of the pool, "" if unregistered.
	GetName() string
}
