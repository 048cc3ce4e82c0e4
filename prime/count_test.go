package prime

import (
	"context"
	"sort"
	"testing"

	"github.com/gostdlib/primes/goroutines"
	"github.com/gostdlib/primes/goroutines/limited"
	"github.com/gostdlib/primes/goroutines/pooled"
	"github.com/gostdlib/primes/goroutines/workers"
	"github.com/kylelemons/godebug/pretty"
)

func TestCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		desc        string
		limit       int64
		threads     int64
		wantCount   int
		wantThreads int64
		wantClamped bool
		wantPrimes  []int64
	}{
		{
			desc:        "limit 10 single thread",
			limit:       10,
			threads:     1,
			wantCount:   4,
			wantThreads: 1,
			wantPrimes:  []int64{2, 3, 5, 7},
		},
		{
			desc:        "limit 10 four threads",
			limit:       10,
			threads:     4,
			wantCount:   4,
			wantThreads: 4,
			wantPrimes:  []int64{2, 3, 5, 7},
		},
		{
			desc:        "limit 1 has no candidates",
			limit:       1,
			threads:     1,
			wantCount:   0,
			wantThreads: 0,
		},
		{
			desc:        "limit 0 with many threads",
			limit:       0,
			threads:     8,
			wantCount:   0,
			wantThreads: 0,
		},
		{
			desc:        "limit 100",
			limit:       100,
			threads:     3,
			wantCount:   25,
			wantThreads: 3,
		},
		{
			desc:        "more threads than candidates",
			limit:       10,
			threads:     50,
			wantCount:   4,
			wantThreads: 9,
			wantClamped: true,
			wantPrimes:  []int64{2, 3, 5, 7},
		},
	}

	for _, test := range tests {
		for _, c := range []Collect{CollectLocal, CollectShared} {
			got, err := Count(ctx, test.limit, test.threads, WithCollect(c), WithPrimes())
			if err != nil {
				t.Errorf("TestCount(%s, %s): got err == %s, want err == nil", test.desc, c, err)
				continue
			}
			if got.Count != test.wantCount {
				t.Errorf("TestCount(%s, %s): got Count == %d, want %d", test.desc, c, got.Count, test.wantCount)
			}
			if got.Threads != test.wantThreads {
				t.Errorf("TestCount(%s, %s): got Threads == %d, want %d", test.desc, c, got.Threads, test.wantThreads)
			}
			if got.Threads > test.limit && test.limit >= 2 {
				t.Errorf("TestCount(%s, %s): got Threads == %d, above limit %d", test.desc, c, got.Threads, test.limit)
			}
			if got.Clamped != test.wantClamped {
				t.Errorf("TestCount(%s, %s): got Clamped == %v, want %v", test.desc, c, got.Clamped, test.wantClamped)
			}
			if len(got.Primes) != got.Count {
				t.Errorf("TestCount(%s, %s): got %d Primes for Count %d", test.desc, c, len(got.Primes), got.Count)
			}
			if test.wantPrimes == nil {
				continue
			}
			sort.Slice(got.Primes, func(i, j int) bool { return got.Primes[i] < got.Primes[j] })
			if diff := pretty.Compare(test.wantPrimes, got.Primes); diff != "" {
				t.Errorf("TestCount(%s, %s): -want/+got:\n%s", test.desc, c, diff)
			}
		}
	}
}

// TestCountThreadInvariance checks that the count only depends on the limit.
func TestCountThreadInvariance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, limit := range []int64{2, 3, 17, 97, 1000, 20000} {
		want, err := ReferenceCount(limit)
		if err != nil {
			t.Fatalf("TestCountThreadInvariance: %s", err)
		}

		for _, threads := range []int64{1, 2, 3, 4, 7, 8, 16, 64, 1024} {
			for _, c := range []Collect{CollectLocal, CollectShared} {
				got, err := Count(ctx, limit, threads, WithCollect(c))
				if err != nil {
					t.Fatalf("TestCountThreadInvariance(%d, %d, %s): got err == %s", limit, threads, c, err)
				}
				if got.Count != want {
					t.Errorf("TestCountThreadInvariance(%d, %d, %s): got %d, want %d", limit, threads, c, got.Count, want)
				}
			}
		}
	}
}

func TestCountWithPool(t *testing.T) {
	t.Parallel()

	pooler, err := pooled.New("", 4)
	if err != nil {
		t.Fatalf("TestCountWithPool: %s", err)
	}
	defer pooler.Close()
	tun, err := workers.New("", 4)
	if err != nil {
		t.Fatalf("TestCountWithPool: %s", err)
	}
	defer tun.Close()

	tests := []struct {
		desc   string
		pool   goroutines.Pool
		submit []goroutines.SubmitOption
	}{
		{desc: "pooled", pool: pooler},
		{desc: "pooled with caller", pool: pooler, submit: []goroutines.SubmitOption{pooled.Caller("TestCountWithPool")}},
		{desc: "workers", pool: tun},
	}

	ctx := context.Background()
	for _, test := range tests {
		// Reusing the pool across computations must not change the answer.
		for i := 0; i < 3; i++ {
			for _, threads := range []int64{1, 4, 16} {
				got, err := Count(ctx, 10000, threads, WithPool(test.pool, test.submit...))
				if err != nil {
					t.Fatalf("TestCountWithPool(%s): got err == %s", test.desc, err)
				}
				if got.Count != 1229 {
					t.Errorf("TestCountWithPool(%s, %d threads): got %d, want 1229", test.desc, threads, got.Count)
				}
			}
		}
	}
}

func TestCountWrongSubmitOption(t *testing.T) {
	t.Parallel()

	p, err := pooled.New("", 2)
	if err != nil {
		t.Fatalf("TestCountWrongSubmitOption: %s", err)
	}
	defer p.Close()

	ctx := context.Background()
	for _, c := range []Collect{CollectLocal, CollectShared} {
		_, err := Count(ctx, 100, 2, WithCollect(c), WithPool(p, limited.Caller("TestCountWrongSubmitOption")))
		if err == nil {
			t.Errorf("TestCountWrongSubmitOption(%s): got err == nil, want err != nil", c)
		}
	}
}

func TestCountIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := Count(ctx, 5000, 6, WithCollect(CollectShared))
	if err != nil {
		t.Fatalf("TestCountIdempotent: %s", err)
	}
	for i := 0; i < 10; i++ {
		got, err := Count(ctx, 5000, 6, WithCollect(CollectShared))
		if err != nil {
			t.Fatalf("TestCountIdempotent: %s", err)
		}
		if got.Count != first.Count {
			t.Errorf("TestCountIdempotent(run %d): got %d, want %d", i, got.Count, first.Count)
		}
	}
}

func TestCountErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		desc    string
		limit   int64
		threads int64
		is      func(error) bool
	}{
		{desc: "zero threads", limit: 10, threads: 0, is: IsInvalidInput},
		{desc: "negative threads", limit: 10, threads: -3, is: IsInvalidInput},
		{desc: "limit too large", limit: MaxLimit + 1, threads: 1, is: IsOutOfRange},
		{desc: "threads too large", limit: 10, threads: MaxThreads + 1, is: IsOutOfRange},
		{desc: "max limit with max limit threads", limit: MaxLimit, threads: MaxLimit, is: IsOutOfRange},
	}

	for _, test := range tests {
		_, err := Count(ctx, test.limit, test.threads)
		if err == nil {
			t.Errorf("TestCountErrors(%s): got err == nil, want err != nil", test.desc)
			continue
		}
		if !test.is(err) {
			t.Errorf("TestCountErrors(%s): got unexpected error type: %s", test.desc, err)
		}
	}
}

func TestCountCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Count(ctx, 1_000_000, 4); err == nil {
		t.Errorf("TestCountCancelled: got err == nil, want err != nil")
	}
}

func TestParseCollect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Collect
		err  bool
	}{
		{in: "", want: CollectLocal},
		{in: "local", want: CollectLocal},
		{in: "shared", want: CollectShared},
		{in: "global", err: true},
	}

	for _, test := range tests {
		got, err := ParseCollect(test.in)
		switch {
		case err == nil && test.err:
			t.Errorf("TestParseCollect(%q): got err == nil, want err != nil", test.in)
		case err != nil && !test.err:
			t.Errorf("TestParseCollect(%q): got err == %s, want err == nil", test.in, err)
		case err == nil && got != test.want:
			t.Errorf("TestParseCollect(%q): got %s, want %s", test.in, got, test.want)
		}
	}
}
