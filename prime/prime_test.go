package prime

import (
	"testing"
)

func TestIsPrime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want bool
	}{
		{-7, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{9, false},
		{25, false},
		{97, true},
		{7919, true},
		{7921, false}, // 89*89
		{2147483647, true},
	}

	for _, test := range tests {
		if got := IsPrime(test.n); got != test.want {
			t.Errorf("TestIsPrime(%d): got %v, want %v", test.n, got, test.want)
		}
	}
}

func TestReferenceCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit int64
		want  int
	}{
		{limit: -1, want: 0},
		{limit: 1, want: 0},
		{limit: 2, want: 1},
		{limit: 10, want: 4},
		{limit: 100, want: 25},
		{limit: 1000, want: 168},
		{limit: 100000, want: 9592},
	}

	for _, test := range tests {
		got, err := ReferenceCount(test.limit)
		if err != nil {
			t.Errorf("TestReferenceCount(%d): got err == %s, want err == nil", test.limit, err)
			continue
		}
		if got != test.want {
			t.Errorf("TestReferenceCount(%d): got %d, want %d", test.limit, got, test.want)
		}
	}

	if _, err := ReferenceCount(MaxLimit); !IsOutOfRange(err) {
		t.Errorf("TestReferenceCount(MaxLimit): got err == %v, want OutOfRange", err)
	}
}

// TestIsPrimeAgreesWithSieve checks the trial division against the sieve at every limit.
func TestIsPrimeAgreesWithSieve(t *testing.T) {
	t.Parallel()

	count := 0
	for n := int64(2); n <= 5000; n++ {
		if IsPrime(n) {
			count++
		}
		want, err := ReferenceCount(n)
		if err != nil {
			t.Fatalf("TestIsPrimeAgreesWithSieve: %s", err)
		}
		if count != want {
			t.Fatalf("TestIsPrimeAgreesWithSieve(%d): trial division counted %d, sieve counted %d", n, count, want)
		}
	}
}
