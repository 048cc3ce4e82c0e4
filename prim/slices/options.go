package slices

import (
	"fmt"

	"github.com/gostdlib/primes/goroutines"
	"github.com/johnsiilver/calloptions"
)

// target returns the *sliceOptions that calloptions hands to an option.
func target(a any) (*sliceOptions, bool) {
	switch t := a.(type) {
	case *sliceOptions:
		return t, true
	case **sliceOptions:
		return *t, true
	}
	return nil, false
}

// WithStopOnErr causes the operation to stop if an error occurs. Since operations are parallel,
// this may not stop all operations. This can be used as a:
// - SliceOption
func WithStopOnErr() interface {
	SliceOption
	calloptions.CallOption
} {
	return struct {
		SliceOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithStopOnErr can only be used with SliceOption")
				}
				t.stopOnErr = true
				return nil
			},
		),
	}
}

// WithPool sets the goroutines.Pool the Accessors run on. The caller owns the Pool
// and is responsible for closing it. This can be used as a:
// - SliceOption
func WithPool(pool goroutines.Pool) interface {
	SliceOption
	calloptions.CallOption
} {
	return struct {
		SliceOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithPool can only be used with SliceOption")
				}
				if pool == nil {
					return fmt.Errorf("WithPool cannot be passed a nil Pool")
				}
				t.pool = pool
				return nil
			},
		),
	}
}

// WithPoolOptions sets the submit options used when submitting to the goroutines.Pool.
// This can be used as a:
// - SliceOption
func WithPoolOptions(options ...goroutines.SubmitOption) interface {
	SliceOption
	calloptions.CallOption
} {
	return struct {
		SliceOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithPoolOptions can only be used with SliceOption")
				}
				t.poolOptions = options
				return nil
			},
		),
	}
}

// WithName names the wait.Group used for span events. This can be used as a:
// - SliceOption
func WithName(name string) interface {
	SliceOption
	calloptions.CallOption
} {
	return struct {
		SliceOption
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				t, ok := target(a)
				if !ok {
					return fmt.Errorf("WithName can only be used with SliceOption")
				}
				t.name = name
				return nil
			},
		),
	}
}
