package dbbadger

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const poolKey = "pool"

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

// NewPoolRepositoryImpl returns a PoolRepository backed by the given store.
func NewPoolRepositoryImpl(store *badgerhold.Store) domain.PoolRepository {
	return &poolRepositoryImpl{store}
}

func (r *poolRepositoryImpl) GetPool(ctx context.Context) (*domain.Pool, error) {
	return r.getPool(ctx)
}

func (r *poolRepositoryImpl) AddPool(ctx context.Context, pool domain.Pool) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, poolKey, pool)
	} else {
		err = r.store.Insert(poolKey, pool)
	}
	return err
}

func (r *poolRepositoryImpl) UpdatePool(
	ctx context.Context, updateFn func(pool *domain.Pool) (*domain.Pool, error),
) error {
	pool, err := r.getPool(ctx)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, poolKey, *updatedPool)
	}
	return r.store.Update(poolKey, *updatedPool)
}

func (r *poolRepositoryImpl) getPool(ctx context.Context) (*domain.Pool, error) {
	var pool domain.Pool
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, poolKey, &pool)
	} else {
		err = r.store.Get(poolKey, &pool)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}
