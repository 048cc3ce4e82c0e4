/*
Package wait provides a safer alternative to sync.WaitGroup. It is an alternative to the errgroup
package and is the barrier a prime computation uses to join all of its workers.

This package can leverage our goroutines.Pool types for more control over concurrency and implements
OTEL span events to record information around what is happening in your goroutines.

Here is a basic example:

	g := wait.Group{Name: "scan"}

	for _, r := range ranges {
		r := r
		g.Go(ctx, func(ctx context.Context) error {
			found, err := prime.Scan(ctx, r)
			if err != nil {
				return err
			}
			fmt.Println(len(found))
			return nil
		})
	}

	if err := g.Wait(ctx); err != nil {
		// Handle error
	}
*/
package wait

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gostdlib/internals/otel/span"
	"github.com/gostdlib/primes/goroutines"
)

// FuncCall is a function call that can be used in various functions or methods
// in this package.
type FuncCall func(ctx context.Context) error

// Group provides a Group implementation that allows launching
// goroutines in safer way by handling the .Add() and .Done() methods in a standard
// sync.WaitGroup. In addition you can use a goroutines.Pool object
// to allow concurrency control and goroutine reuse (if you don't, it just uses
// a goroutine per call). It provides a Running() method that keeps track of
// how many goroutines are running. It has a CancelOnErr field to
// allow mimicking of the golang.org/x/sync/errgroup package.
// The Group can be named via the Group.Name string. This will provide span messages on the
// current span when Wait() is called and record any errors in the span.
type Group struct {
	count  atomic.Int64
	total  atomic.Int64
	errors atomic.Pointer[error]
	wg     sync.WaitGroup

	noCopy noCopy // Flag govet to prevent copying

	// Pool is an optional goroutines.Pool for concurrency control and reuse.
	Pool goroutines.Pool
	// CancelOnErr holds a CancelFunc that will be called if any goroutine
	// returns an error. This will automatically be called when Wait() is
	// finished and then reset to nil to allow reuse.
	CancelOnErr context.CancelFunc
	// Name provides an optional name for a Group for the purpose of
	// OTEL span events.
	Name string
	// PoolOptions are the options to use when submitting jobs to the Pool.
	PoolOptions []goroutines.SubmitOption
}

// Go spins off a goroutine that executes f(ctx). This will use the underlying
// goroutines.Pool if provided. If the Pool rejects the job, the rejection is
// returned from Wait().
func (w *Group) Go(ctx context.Context, f FuncCall) {
	w.count.Add(1)
	w.total.Add(1)
	w.wg.Add(1)

	run := func(ctx context.Context) {
		defer w.count.Add(-1)
		defer w.wg.Done()

		if ctx.Err() != nil {
			applyErr(&w.errors, ctx.Err())
			return
		}

		if err := f(ctx); err != nil {
			applyErr(&w.errors, err)
			if w.CancelOnErr != nil {
				w.CancelOnErr()
			}
		}
	}

	if w.Pool == nil {
		go run(ctx)
		return
	}

	if err := w.Pool.Submit(ctx, run, w.PoolOptions...); err != nil {
		w.count.Add(-1)
		w.wg.Done()
		applyErr(&w.errors, fmt.Errorf("pool(%s) rejected job: %w", w.Pool.GetName(), err))
		if w.CancelOnErr != nil {
			w.CancelOnErr()
		}
	}
}

// Running returns the number of goroutines that are currently running.
func (w *Group) Running() int {
	return int(w.count.Load())
}

// Wait blocks until all goroutines are finished. The passed Context is only used
// for span events; cancelling it does not stop Wait.
func (w *Group) Wait(ctx context.Context) error {
	if w.Name == "" {
		w.Name = "unspecified"
	}

	now := time.Now()
	spanner := span.Get(ctx)
	w.waitOTELStart(spanner)
	defer w.waitOTELEnd(spanner, now)

	w.wg.Wait()

	if w.CancelOnErr != nil {
		w.CancelOnErr()
		w.CancelOnErr = nil
	}
	err := w.errors.Load()
	if err != nil {
		spanner.Error(*err)
		return *err
	}
	return nil
}

// waitOTELStart is called when Wait() is called and will log information to the span.
func (w *Group) waitOTELStart(spanner span.Span) {
	if spanner.Span == nil || !spanner.Span.IsRecording() {
		return
	}

	spanner.Event(
		"Group.Wait() called",
		"name", w.Name,
		"total goroutines", w.total.Load(),
		"cancelOnErr", w.CancelOnErr != nil,
		"using pool", w.Pool != nil,
	)
}

// waitOTELEnd is called when Wait() is finished and will log information to the span.
func (w *Group) waitOTELEnd(spanner span.Span, t time.Time) {
	if spanner.Span != nil && spanner.Span.IsRecording() {
		spanner.Event("Group.Wait() done", "name", w.Name, "elapsed_ns", time.Since(t))
	}

	// Reset counters so the Group can be reused.
	w.count.Store(0)
	w.total.Store(0)
	w.errors.Store(nil)
}

// applyErr sets the error to be returned. If an error already exists, the first error wins.
// Context cancellation is only recorded if it is the first error.
// This uses atomic compare and swap operations to avoid a mutex.
func applyErr(ptr *atomic.Pointer[error], err error) {
	ptr.CompareAndSwap(nil, &err)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
