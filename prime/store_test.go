package prime

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestStoreConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := &Store{}
	wg := sync.WaitGroup{}
	for w := 0; w < 8; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Append(int64(w*1000 + i))
			}
		}()
	}
	wg.Wait()

	if s.Len() != 8000 {
		t.Fatalf("TestStoreConcurrentAppend: got Len() == %d, want 8000", s.Len())
	}

	got := s.Values()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		if v != int64(i) {
			t.Fatalf("TestStoreConcurrentAppend: value %d is %d, a value was lost or duplicated", i, v)
		}
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		desc string
		r    Range
		want []int64
	}{
		{desc: "from two", r: Range{2, 20}, want: []int64{2, 3, 5, 7, 11, 13, 17, 19}},
		{desc: "middle", r: Range{90, 110}, want: []int64{97, 101, 103, 107, 109}},
		{desc: "no primes", r: Range{24, 28}, want: nil},
		{desc: "empty range", r: Range{5, 4}, want: nil},
	}

	for _, test := range tests {
		got, err := Scan(ctx, test.r)
		if err != nil {
			t.Errorf("TestScan(%s): got err == %s", test.desc, err)
			continue
		}
		if diff := pretty.Compare(test.want, got); diff != "" {
			t.Errorf("TestScan(%s): -want/+got:\n%s", test.desc, diff)
		}

		s := &Store{}
		if err := ScanInto(ctx, test.r, s); err != nil {
			t.Errorf("TestScan(%s): ScanInto got err == %s", test.desc, err)
			continue
		}
		if s.Len() != len(test.want) {
			t.Errorf("TestScan(%s): ScanInto stored %d, want %d", test.desc, s.Len(), len(test.want))
		}
	}
}

func TestScanCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Scan(ctx, Range{2, 1_000_000}); err == nil {
		t.Errorf("TestScanCancelled: got err == nil, want err != nil")
	}
}
