/*
Package pooled provides a Pool of goroutines where you can submit Jobs
to be run by an existing goroutine instead of spinning off a new goroutine.

The benchmark harness keeps one of these alive for every thread count in a sweep so
that goroutine creation and teardown does not skew the measured runtimes.

See the examples in the parent package "goroutines" for an overview of using pools.
*/
package pooled

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
	queue     chan submit
	size      int
	name      string

	// mu is held for reading while a Submit() sends on queue and for writing while
	// Close() sets closed, so queue is never closed under a sender.
	mu     sync.RWMutex
	closed atomic.Bool
}

// New creates a new Pool. "name" is the name of the pool which is used in span
// events. Names must be globally unique; if not unique, a unique name will be created.
// If name is the empty string, the pool will not be registered. Names cannot contain
// spaces, hyphens, or numbers. "size" is the number of goroutines that are started
// and reused for every Job.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if err := register.ValidateBaseName(name); err != nil {
		return nil, err
	}

	p := &Pool{name: name, queue: make(chan submit, 1), size: size}
	for i := 0; i < size; i++ {
		go p.runner()
	}

	for {
		if err := register.Register(p); err != nil {
			p.name = register.NewName(p.name)
			continue
		}
		break
	}
	return p, nil
}

// Close waits for all submitted jobs to stop, then stops all goroutines.
// Calling Close more than once is a no-op. A Submit() racing with Close() either
// runs its Job before Close() returns or gets an error.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.queue)
	register.Unregister(p)
}

// Wait will wait for all goroutines in the pool to finish. If you need to only
// wait on a subset of jobs, use a wait.Group.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Cap returns the number of goroutines in the pool.
func (p *Pool) Cap() int {
	return p.size
}

// Running returns the number of running jobs in the pool.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the goroutines pool.
func (p *Pool) GetName() string {
	return p.name
}

type submit struct {
	ctx context.Context
	job goroutines.Job
}

// NonBlocking indicates that if a pooled goroutine is not available, spin off
// a goroutine and do not block.
func NonBlocking() goroutines.SubmitOption {
	return func(opt *pool.SubmitOptions) error {
		if opt.Type != pool.PTPooled {
			return fmt.Errorf("cannot use pooled.NonBlocking() with a %s pool", opt.Type)
		}
		opt.NonBlocking = true
		return nil
	}
}

// Caller sets the name of the calling function so that span events can differentiate
// who is using the goroutines in the pool. If this is not set, we will use runtime.FuncForPC().
func Caller(name string) goroutines.SubmitOption {
	return func(opt *pool.SubmitOptions) error {
		if opt.Type != pool.PTPooled {
			return fmt.Errorf("cannot use pooled.Caller() with a %s pool", opt.Type)
		}
		opt.Caller = name
		return nil
	}
}

// Submit submits the runner to be executed.
func (p *Pool) Submit(ctx context.Context, runner goroutines.Job, options ...goroutines.SubmitOption) error {
	spanner := span.Get(ctx)

	if runner == nil {
		err := fmt.Errorf("cannot submit a runner that is nil")
		spanner.Error(err)
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		err := fmt.Errorf("cannot submit to a closed Pool")
		spanner.Error(err)
		return err
	}

	opts := pool.SubmitOptions{Type: pool.PTPooled}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	now := time.Now()
	s := submit{ctx: ctx, job: runner}
	fcn := p.callerName(opts)

	p.wg.Add(1)
	p.running.Add(1)
	if opts.NonBlocking {
		select {
		case p.queue <- s:
		default:
			go func() {
				defer p.wg.Done()
				defer p.running.Add(-1)
				s.job(ctx)
			}()
		}
		p.submitEvent(spanner, fcn, opts.NonBlocking, now)
		return nil
	}

	select {
	case p.queue <- s:
	default:
		p.blockEvent(spanner, fcn, now)
		p.queue <- s
	}
	p.submitEvent(spanner, fcn, opts.NonBlocking, now)
	return nil
}

func (p *Pool) submitEvent(spanner span.Span, fcn string, nonBlock bool, t time.Time) {
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Pool.Submit() called",
		"pkg", "github.com/gostdlib/primes/goroutines/pooled",
		"caller", fcn,
		"name", p.name,
		"non_blocking", nonBlock,
		"submit_latency_ns", time.Since(t),
	)
}

func (p *Pool) blockEvent(spanner span.Span, fcn string, t time.Time) {
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return
	}
	spanner.Event(
		"Pool.Submit() blocking....",
		"pkg", "github.com/gostdlib/primes/goroutines/pooled",
		"caller", fcn,
		"name", p.name,
		"event", "blocking",
		"submit_latency_ns", time.Since(t),
	)
}

// runner is used to run any function that comes in on the queue.
func (p *Pool) runner() {
	for s := range p.queue {
		s.job(s.ctx)
		p.running.Add(-1)
		p.wg.Done()
	}
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
