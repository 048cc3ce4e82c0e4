/*
Package prime counts the primes in [2, limit] by splitting the range into one
contiguous Range per worker, testing every candidate with trial division and
collecting what each worker finds.

The algorithm is intentionally naive, O(sqrt(n)) per candidate, so that it is a stable
baseline for measuring how runtime changes with the number of workers.

Counting with 4 workers:

	res, err := prime.Count(ctx, 1_000_000, 4)
	if err != nil {
		// Handle error
	}
	fmt.Printf("%d primes were found.\n", res.Count)

By default each worker builds a private list that is merged once every worker is
done. WithCollect(CollectShared) makes every worker append to one mutex guarded
Store instead.
*/
package prime

// MaxLimit is the largest limit accepted. Keeping limits at or below 2^62 means
// i*i in IsPrime and the range arithmetic in Partition cannot overflow an int64.
const MaxLimit int64 = 1 << 62

// MaxThreads is the largest number of workers accepted. Every worker owns a Range
// and a goroutine, so the bound keeps a Count's memory in check.
const MaxThreads int64 = 1 << 20

// IsPrime reports whether n is prime by trial division with every i where i*i <= n.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	for i := int64(2); i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// maxReferenceLimit bounds the memory ReferenceCount will allocate.
const maxReferenceLimit int64 = 1 << 31

// ReferenceCount returns the number of primes in [2, limit] using a sieve of
// Eratosthenes. It shares no code with IsPrime and is used to verify counts.
func ReferenceCount(limit int64) (int, error) {
	if limit < 2 {
		return 0, nil
	}
	if limit > maxReferenceLimit {
		return 0, Errorf(TypeOutOfRange, "reference count limit %d is above %d", limit, maxReferenceLimit)
	}

	composite := make([]bool, limit+1)
	count := 0
	for n := int64(2); n <= limit; n++ {
		if composite[n] {
			continue
		}
		count++
		for m := n * n; m <= limit; m += n {
			composite[m] = true
		}
	}
	return count, nil
}
