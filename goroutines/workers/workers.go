/*
Package workers provides a goroutines.Pool backed by a github.com/Jeffail/tunny
callback pool. Jobs are handed to a fixed set of tunny workers that live until
Close() is called.

New starts one feeder goroutine per tunny worker. Feeders take Jobs off a queue and
hand them to tunny, so no goroutine is created per Job and Submit blocks while every
worker is busy.
*/
package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Jeffail/tunny"
	"github.com/gostdlib/internals/otel/span"
	"github.com/gostdlib/primes/goroutines"
	"github.com/gostdlib/primes/goroutines/internal/pool"
	"github.com/gostdlib/primes/goroutines/internal/register"
)

var _ goroutines.Pool = &Pool{}

// Pool is a tunny backed pool of goroutines.
type Pool struct {
	wg        sync.WaitGroup
	running   atomic.Int64
	pool.Pool // Implements the pool.Preventer interface
	tp        *tunny.Pool
	queue     chan submit
	name      string

	// mu is held for reading while a Submit() sends on queue and for writing while
	// Close() sets closed, so queue is never closed under a sender.
	mu     sync.RWMutex
	closed atomic.Bool
}

type submit struct {
	ctx context.Context
	job goroutines.Job
}

// New creates a new Pool with "size" tunny workers. Naming follows the same rules as
// the pooled and limited packages.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if err := register.ValidateBaseName(name); err != nil {
		return nil, err
	}

	p := &Pool{name: name, tp: tunny.NewCallback(size), queue: make(chan submit, 1)}
	for i := 0; i < size; i++ {
		go p.feeder()
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

// Submit submits the runner to be executed by a tunny worker.
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

	opts := pool.SubmitOptions{Type: pool.PTWorkers}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	p.wg.Add(1)
	p.queue <- submit{ctx: ctx, job: runner}
	return nil
}

// feeder hands Jobs from the queue to a tunny worker. There is one feeder per
// worker, so tunny is never handed more Jobs than it has workers.
func (p *Pool) feeder() {
	for s := range p.queue {
		s := s
		p.tp.Process(func() {
			p.running.Add(1)
			defer p.running.Add(-1)
			s.job(s.ctx)
		})
		p.wg.Done()
	}
}

// Close waits for all submitted jobs to stop, then stops the tunny workers.
// Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.queue)
	p.tp.Close()
	register.Unregister(p)
}

// Wait will wait for all submitted jobs to finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Cap returns the number of tunny workers.
func (p *Pool) Cap() int {
	return p.tp.GetSize()
}

// Running returns the number of jobs currently executing on a tunny worker.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the goroutines pool.
func (p *Pool) GetName() string {
	return p.name
}
