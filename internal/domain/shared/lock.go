package shared

import "context"

// Lock is a held mutual-exclusion lease
type Lock interface {
	Release(ctx context.Context) error
}

// Locker serializes work on a key across processes.
// Obtain returns ErrConcurrencyConflict when the key stays held.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}
