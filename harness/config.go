package harness

import (
	"fmt"

	"github.com/gostdlib/primes/prime"
)

// Backend is how the workers of each run are executed.
type Backend string

const (
	// BackendGoroutine starts a goroutine per Range for every run.
	BackendGoroutine Backend = "goroutine"
	// BackendPooled reuses a pooled.Pool across the iterations of a thread count.
	BackendPooled Backend = "pooled"
	// BackendTunny reuses a tunny backed workers.Pool across the iterations of a thread count.
	BackendTunny Backend = "tunny"
)

// ParseBackend converts a string to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendGoroutine, BackendPooled, BackendTunny:
		return b, nil
	case "":
		return BackendGoroutine, nil
	}
	return "", prime.Errorf(prime.TypeInvalidInput, "backend must be goroutine, pooled or tunny, got %q", s)
}

// DefaultThreadCounts is the thread count sweep used if Config.ThreadCounts is empty.
var DefaultThreadCounts = []int64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}

const (
	// DefaultLimit is the limit used by the harness.
	DefaultLimit int64 = 1_000_000
	// DefaultIterations is the number of runs per thread count.
	DefaultIterations = 6
)

// Config configures a Runner.
type Config struct {
	// Limit is the upper bound to count primes to.
	Limit int64
	// Iterations is the number of runs for each thread count.
	Iterations int
	// ThreadCounts is the sweep of thread counts, in the order they run.
	ThreadCounts []int64
	// Backend is how workers are executed.
	Backend Backend
	// Collect is how workers collect primes.
	Collect prime.Collect
	// Verify checks every count against prime.ReferenceCount().
	Verify bool
}

// DefaultConfig returns the Config the harness uses when nothing is set.
func DefaultConfig() Config {
	tc := make([]int64, len(DefaultThreadCounts))
	copy(tc, DefaultThreadCounts)

	return Config{
		Limit:        DefaultLimit,
		Iterations:   DefaultIterations,
		ThreadCounts: tc,
		Backend:      BackendGoroutine,
		Collect:      prime.CollectLocal,
		Verify:       true,
	}
}

// Validate returns an error if the Config cannot be run.
func (c Config) Validate() error {
	if c.Limit < 2 {
		return prime.Errorf(prime.TypeInvalidInput, "limit must be >= 2, got %d", c.Limit)
	}
	if c.Limit > prime.MaxLimit {
		return prime.Errorf(prime.TypeOutOfRange, "limit %d is above the maximum of %d", c.Limit, prime.MaxLimit)
	}
	if c.Iterations < 1 {
		return prime.Errorf(prime.TypeInvalidInput, "iterations must be >= 1, got %d", c.Iterations)
	}
	if len(c.ThreadCounts) == 0 {
		return prime.Errorf(prime.TypeInvalidInput, "at least one thread count is required")
	}
	for _, t := range c.ThreadCounts {
		if t < 1 {
			return prime.Errorf(prime.TypeInvalidInput, "thread counts must be >= 1, got %d", t)
		}
		if t > prime.MaxThreads {
			return prime.Errorf(prime.TypeOutOfRange, "thread count %d is above the maximum of %d", t, prime.MaxThreads)
		}
	}
	if _, err := ParseBackend(string(c.Backend)); err != nil {
		return fmt.Errorf("bad Config: %w", err)
	}
	return nil
}
