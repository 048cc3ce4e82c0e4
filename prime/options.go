package prime

import (
	"fmt"

	"github.com/gostdlib/primes/goroutines"
	"github.com/johnsiilver/calloptions"
)

// Collect is how workers hand the primes they find back to Count.
type Collect uint8

const (
	// CollectLocal has every worker build a private list that Count merges after
	// all workers are done. Nothing is shared while workers run.
	CollectLocal Collect = 0
	// CollectShared has every worker append to one mutex guarded Store.
	CollectShared Collect = 1
)

// String implements fmt.Stringer.
func (c Collect) String() string {
	switch c {
	case CollectLocal:
		return "local"
	case CollectShared:
		return "shared"
	}
	return fmt.Sprintf("Collect(%d)", uint8(c))
}

// ParseCollect converts "local" or "shared" to a Collect.
func ParseCollect(s string) (Collect, error) {
	switch s {
	case "local", "":
		return CollectLocal, nil
	case "shared":
		return CollectShared, nil
	}
	return 0, Errorf(TypeInvalidInput, "collect must be local or shared, got %q", s)
}

type countOptions struct {
	pool       goroutines.Pool
	submit     []goroutines.SubmitOption
	collect    Collect
	keepPrimes bool
}

// target returns the *countOptions that calloptions hands to an option.
func target(a any) (*countOptions, bool) {
	switch t := a.(type) {
	case *countOptions:
		return t, true
	case **countOptions:
		return *t, true
	}
	return nil, false
}

// Option is an option for Count().
type Option interface {
	count()
}

// WithPool runs the workers on "pool" instead of a goroutine per Range. The caller
// owns the pool and must close it. Workers run at most pool.Cap() at a time, so a
// pool smaller than the number of workers serializes some Ranges. "options" are
// passed to every pool.Submit(), such as pooled.Caller().
func WithPool(pool goroutines.Pool, options ...goroutines.SubmitOption) interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithPool can only be used with Count()")
				}
				if pool == nil {
					return fmt.Errorf("WithPool cannot be passed a nil Pool")
				}
				t.pool = pool
				t.submit = options
				return nil
			},
		),
	}
}

// WithCollect sets how workers collect primes. The default is CollectLocal.
func WithCollect(c Collect) interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithCollect can only be used with Count()")
				}
				switch c {
				case CollectLocal, CollectShared:
				default:
					return Errorf(TypeInvalidInput, "unknown %s", c)
				}
				t.collect = c
				return nil
			},
		),
	}
}

// WithPrimes keeps the primes that were found in Result.Primes. Without it
// only the count is returned.
func WithPrimes() interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithPrimes can only be used with Count()")
				}
				t.keepPrimes = true
				return nil
			},
		),
	}
}
