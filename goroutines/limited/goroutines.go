/*
Package limited provides a goroutine execution Pool that spins a goroutine per Submit()
but is hard limited to the number of goroutines that can run at any time.

This is the closest thing to creating one thread per search range: the pool starts
very fast and nothing is reused, so it is a good fit for a single computation that
is set up and torn down.

See the examples in the parent package "goroutines" for an overview of using pools.
*/
package limited

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gostdlib/internals/otel/span"
	"github.com/gostdlib/primes/goroutines"
	"github.com/gostdlib/primes/goroutines/internal/pool"
	"github.com/gostdlib/primes/goroutines/internal/register"
)

var _ goroutines.Pool = &Pool{}

// Pool is a pool of goroutines.
type Pool struct {
	wg        sync.WaitGroup
	running   atomic.Int64
	pool.Pool // Implements the pool.Preventer interface
	queue     chan struct{}
	name      string
}

// New creates a new Pool. "name" is the name of the pool which is used in span
// events. Names must be globally unique; if not unique, a unique name will be created.
// If name is the empty string, the pool will not be registered, which is useful if
// creating and tearing down the pool for a single computation. Names cannot contain
// spaces, hyphens, or numbers. "size" is the number of goroutines that can execute concurrently.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if err := register.ValidateBaseName(name); err != nil {
		return nil, err
	}

	p := &Pool{name: name, queue: make(chan struct{}, size)}

	for {
		if err := register.Register(p); err != nil {
			p.name = register.NewName(p.name)
			continue
		}
		break
	}
	return p, nil
}

// Close waits for all submitted jobs to stop, then releases the pool.
func (p *Pool) Close() {
	p.wg.Wait()
	register.Unregister(p)
}

// Wait will wait for all goroutines in the pool to finish. If you need to only
// wait on a subset of jobs, use a wait.Group.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Cap returns the number of goroutines that may run at once.
func (p *Pool) Cap() int {
	return cap(p.queue)
}

// Running returns the number of running jobs in the pool.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the goroutines pool.
func (p *Pool) GetName() string {
	return p.name
}

// Caller sets the name of the calling function so that span events can differentiate
// who is using the goroutines in the pool. If this is not set, we will use runtime.FuncForPC().
func Caller(name string) goroutines.SubmitOption {
	return func(opt *pool.SubmitOptions) error {
		if opt.Type != pool.PTLimited {
			return fmt.Errorf("cannot use limited.Caller() with a %s pool", opt.Type)
		}
		opt.Caller = name
		return nil
	}
}

// Submit submits the runner to be executed. Submit blocks while the pool is at its limit.
func (p *Pool) Submit(ctx context.Context, runner goroutines.Job, options ...goroutines.SubmitOption) error {
	spanner := span.Get(ctx)
	if runner == nil {
		err := fmt.Errorf("cannot submit a runner that is nil")
		spanner.Error(err)
		return err
	}

	opts := pool.SubmitOptions{Type: pool.PTLimited}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	now := time.Now()
	fcn := p.callerName(opts)

	select {
	case p.queue <- struct{}{}:
	default:
		p.blockEvent(spanner, fcn, now)
		p.queue <- struct{}{}
	}
	p.submitEvent(spanner, fcn, now)

	p.wg.Add(1)
	p.running.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.running.Add(-1)
		defer func() { <-p.queue }()
		runner(ctx)
	}()

	return nil
}

func (p *Pool) submitEvent(spanner span.Span, fcn string, t time.Time) {
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Pool.Submit() called",
		"pkg", "github.com/gostdlib/primes/goroutines/limited",
		"caller", fcn,
		"name", p.name,
		"submit_latency_ns", time.Since(t),
	)
}

func (p *Pool) blockEvent(spanner span.Span, fcn string, t time.Time) {
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Pool.Submit() blocking....",
		"pkg", "github.com/gostdlib/primes/goroutines/limited",
		"caller", fcn,
		"name", p.name,
		"event", "blocking",
		"submit_latency_ns", time.Since(t),
	)
}

func (p *Pool) callerName(opts pool.SubmitOptions) string {
	if opts.Caller != "" {
		return opts.Caller
	}

	pc, _, _, ok := runtime.Caller(2)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		return details.Name()
	}
	return ""
}
