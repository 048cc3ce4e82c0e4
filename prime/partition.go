package prime

import "fmt"

// Range is an inclusive range of candidates [Start, End] handed to a single worker.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of integers in the Range.
func (r Range) Len() int64 {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Empty is true if the Range holds no integers.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// EffectiveThreads returns the number of workers that will be used for "limit".
// [2, limit] holds limit-1 candidates, so asking for more workers than that is
// clamped down to limit-1 which leaves every worker at least one candidate.
// A limit < 2 has no candidates and needs no workers.
func EffectiveThreads(limit, threads int64) int64 {
	if limit < 2 {
		return 0
	}
	if threads > limit-1 {
		return limit - 1
	}
	return threads
}

// Partition splits [2, limit] into EffectiveThreads(limit, threads) disjoint Ranges
// that cover every integer in [2, limit] exactly once. Every Range holds limit/threads
// integers except the last, which runs to limit and absorbs the remainder.
// Partition returns nil if limit < 2, threads < 1 or threads > MaxThreads.
func Partition(limit, threads int64) []Range {
	if threads < 1 || threads > MaxThreads {
		return nil
	}
	threads = EffectiveThreads(limit, threads)
	if threads == 0 {
		return nil
	}

	chunk := limit / threads
	ranges := make([]Range, threads)
	for i := int64(0); i < threads; i++ {
		start := i*chunk + 2
		end := start + chunk - 1
		if i == threads-1 {
			end = limit
		}
		ranges[i] = Range{Start: start, End: end}
	}
	return ranges
}
