package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type swapRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSwapRepositoryImpl returns a SwapRepository backed by the given store.
func NewSwapRepositoryImpl(store *badgerhold.Store) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r *swapRepositoryImpl) AddSwap(ctx context.Context, swap domain.Swap) error {
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxInsert(tx, swap.ID, swap)
	}
	return r.store.Insert(swap.ID, swap)
}

func (r *swapRepositoryImpl) GetSwap(
	ctx context.Context, id string,
) (*domain.Swap, error) {
	var swap domain.Swap
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &swap)
	} else {
		err = r.store.Get(id, &swap)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]domain.Swap, error) {
	return r.findSwaps(ctx, nil)
}

func (r *swapRepositoryImpl) GetPendingSwaps(
	ctx context.Context,
) ([]domain.Swap, error) {
	query := badgerhold.Where("Status.Failed").Eq(false).
		And("Status.Code").Lt(domain.SwapStatusCodeCommitted)
	return r.findSwaps(ctx, query)
}

func (r *swapRepositoryImpl) UpdateSwap(
	ctx context.Context, id string,
	updateFn func(swap *domain.Swap) (*domain.Swap, error),
) error {
	swap, err := r.GetSwap(ctx, id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(swap)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, id, *updatedSwap)
	}
	return r.store.Update(id, *updatedSwap)
}

func (r *swapRepositoryImpl) findSwaps(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Swap, error) {
	var swaps []domain.Swap
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &swaps, query)
	} else {
		err = r.store.Find(&swaps, query)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(swaps, func(i, j int) bool {
		return swaps[i].Timestamp.Received < swaps[j].Timestamp.Received
	})
	return swaps, nil
}
