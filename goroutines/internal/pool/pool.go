package pool

// PoolType is for internal use. Please ignore.
type PoolType uint8

// The zero PoolType is an unknown pool.
const (
	PTPooled  PoolType = 1
	PTLimited PoolType = 2
	PTWorkers PoolType = 3
)

// String implements fmt.Stringer.
func (p PoolType) String() string {
	switch p {
	case PTPooled:
		return "pooled"
	case PTLimited:
		return "limited"
	case PTWorkers:
		return "workers"
	}
	return "unknown"
}

// SubmitOptions is used internally. Please ignore.
type SubmitOptions struct {
	// Caller is a name of the supposed calling function so that span events can differentiate
	// who is using the goroutines in the pool.
	Caller string
	// Type is the type of pool this option is mean for.
	Type PoolType
	// NonBlocking indicates this call is non-blocking, which means if that the
	// pool does not have enough capacity it spins off a naked goroutine.
	NonBlocking bool
}

// Preventer is an interface that prevents implementations of our pools from outside packages.
type Preventer interface {
	pool()
}

// Pool implements Preventer.
type Pool struct{}

//lint:ignore U1000 This is for internal use only.
func (p *Pool) pool() {}
