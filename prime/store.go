package prime

import (
	"context"
	"sync"
)

// checkEvery is how many candidates a worker tests between Context checks.
const checkEvery = 1024

// Store is the append-only set of primes shared by every worker of one computation.
// Order of the values is the order workers happened to append in.
type Store struct {
	mu     sync.Mutex
	primes []int64
}

// Append adds n to the Store. Only one Append runs at a time.
func (s *Store) Append(n int64) {
	s.mu.Lock()
	s.primes = append(s.primes, n)
	s.mu.Unlock()
}

// Len returns the number of values in the Store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.primes)
}

// Values returns a copy of the values in the Store.
func (s *Store) Values() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, len(s.primes))
	copy(out, s.primes)
	return out
}

// Scan tests every integer in r and returns the primes found in ascending order.
// It returns ctx.Err() with the primes found so far if ctx is cancelled.
func Scan(ctx context.Context, r Range) ([]int64, error) {
	var primes []int64
	err := scan(ctx, r, func(n int64) { primes = append(primes, n) })
	return primes, err
}

// ScanInto tests every integer in r and appends each prime to s.
// It returns ctx.Err() if ctx is cancelled.
func ScanInto(ctx context.Context, r Range, s *Store) error {
	return scan(ctx, r, s.Append)
}

func scan(ctx context.Context, r Range, found func(n int64)) error {
	for n := r.Start; n <= r.End; n++ {
		if (n-r.Start)%checkEvery == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if IsPrime(n) {
			found(n)
		}
	}
	return nil
}
