package inmemory

import (
	"context"
	"sort"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *swapInmemoryStore
}

// NewSwapRepositoryImpl returns a new inmemory SwapRepository implementation.
func NewSwapRepositoryImpl(store *swapInmemoryStore) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r *swapRepositoryImpl) AddSwap(_ context.Context, swap domain.Swap) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.swaps[swap.ID]; ok {
		return ErrSwapAlreadyExists
	}
	r.store.swaps[swap.ID] = swap
	return nil
}

func (r *swapRepositoryImpl) GetSwap(
	_ context.Context, id string,
) (*domain.Swap, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.getSwap(id)
}

func (r *swapRepositoryImpl) GetAllSwaps(
	_ context.Context,
) ([]domain.Swap, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.findSwaps(func(domain.Swap) bool { return true }), nil
}

func (r *swapRepositoryImpl) GetPendingSwaps(
	_ context.Context,
) ([]domain.Swap, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.findSwaps(func(s domain.Swap) bool { return s.IsPending() }), nil
}

func (r *swapRepositoryImpl) UpdateSwap(
	_ context.Context, id string,
	updateFn func(swap *domain.Swap) (*domain.Swap, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	swap, err := r.getSwap(id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(swap)
	if err != nil {
		return err
	}

	r.store.swaps[id] = *updatedSwap
	return nil
}

func (r *swapRepositoryImpl) getSwap(id string) (*domain.Swap, error) {
	swap, ok := r.store.swaps[id]
	if !ok {
		return nil, domain.ErrSwapNotFound
	}
	return &swap, nil
}

func (r *swapRepositoryImpl) findSwaps(
	filter func(domain.Swap) bool,
) []domain.Swap {
	swaps := make([]domain.Swap, 0, len(r.store.swaps))
	for _, swap := range r.store.swaps {
		if filter(swap) {
			swaps = append(swaps, swap)
		}
	}
	sort.SliceStable(swaps, func(i, j int) bool {
		return swaps[i].Timestamp.Received < swaps[j].Timestamp.Received
	})
	return swaps
}
