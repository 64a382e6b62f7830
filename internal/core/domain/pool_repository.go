package domain

import "context"

// PoolRepository is the abstraction for the storage of the one pool record
// owned by the daemon.
type PoolRepository interface {
	// GetPool returns the stored pool or ErrPoolNotFound.
	GetPool(ctx context.Context) (*Pool, error)
	// AddPool stores the pool if none exists yet.
	AddPool(ctx context.Context, pool Pool) error
	// UpdatePool replaces the stored pool with the one returned by updateFn.
	// Nothing is written if updateFn fails.
	UpdatePool(
		ctx context.Context, updateFn func(pool *Pool) (*Pool, error),
	) error
}
