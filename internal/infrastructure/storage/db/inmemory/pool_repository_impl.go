package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

type poolRepositoryImpl struct {
	store *poolInmemoryStore
}

// NewPoolRepositoryImpl returns a new inmemory PoolRepository implementation.
func NewPoolRepositoryImpl(store *poolInmemoryStore) domain.PoolRepository {
	return &poolRepositoryImpl{store}
}

func (r *poolRepositoryImpl) GetPool(_ context.Context) (*domain.Pool, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.getPool()
}

func (r *poolRepositoryImpl) AddPool(_ context.Context, pool domain.Pool) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.pool != nil {
		return ErrPoolAlreadyExists
	}
	r.store.pool = &pool
	return nil
}

func (r *poolRepositoryImpl) UpdatePool(
	_ context.Context, updateFn func(pool *domain.Pool) (*domain.Pool, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	pool, err := r.getPool()
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	p := *updatedPool
	r.store.pool = &p
	return nil
}

func (r *poolRepositoryImpl) getPool() (*domain.Pool, error) {
	if r.store.pool == nil {
		return nil, domain.ErrPoolNotFound
	}
	pool := *r.store.pool
	return &pool, nil
}
