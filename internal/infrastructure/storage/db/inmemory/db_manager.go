package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
)

type poolInmemoryStore struct {
	pool   *domain.Pool
	locker *sync.RWMutex
}

type swapInmemoryStore struct {
	swaps  map[string]domain.Swap
	locker *sync.RWMutex
}

type repoManager struct {
	poolStore *poolInmemoryStore
	swapStore *swapInmemoryStore

	poolRepository domain.PoolRepository
	swapRepository domain.SwapRepository

	txLocker *sync.Mutex
}

// NewRepoManager returns a RepoManager keeping everything in memory.
func NewRepoManager() ports.RepoManager {
	poolStore := &poolInmemoryStore{locker: &sync.RWMutex{}}
	swapStore := &swapInmemoryStore{
		swaps:  map[string]domain.Swap{},
		locker: &sync.RWMutex{},
	}

	return &repoManager{
		poolStore:      poolStore,
		swapStore:      swapStore,
		poolRepository: NewPoolRepositoryImpl(poolStore),
		swapRepository: NewSwapRepositoryImpl(swapStore),
		txLocker:       &sync.Mutex{},
	}
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) SwapRepository() domain.SwapRepository {
	return r.swapRepository
}

// RunTransaction runs the handler and, if it fails, restores the state of
// the stores as it was before the call.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	r.txLocker.Lock()
	defer r.txLocker.Unlock()

	if readOnly {
		return handler(ctx)
	}

	pool, swaps := r.snapshot()

	res, err := handler(ctx)
	if err != nil {
		r.restore(pool, swaps)
		return nil, err
	}
	return res, nil
}

func (r *repoManager) Close() {}

func (r *repoManager) snapshot() (*domain.Pool, map[string]domain.Swap) {
	r.poolStore.locker.RLock()
	var pool *domain.Pool
	if r.poolStore.pool != nil {
		p := *r.poolStore.pool
		pool = &p
	}
	r.poolStore.locker.RUnlock()

	r.swapStore.locker.RLock()
	swaps := make(map[string]domain.Swap, len(r.swapStore.swaps))
	for id, swap := range r.swapStore.swaps {
		swaps[id] = swap
	}
	r.swapStore.locker.RUnlock()

	return pool, swaps
}

func (r *repoManager) restore(pool *domain.Pool, swaps map[string]domain.Swap) {
	r.poolStore.locker.Lock()
	r.poolStore.pool = pool
	r.poolStore.locker.Unlock()

	r.swapStore.locker.Lock()
	r.swapStore.swaps = swaps
	r.swapStore.locker.Unlock()
}
