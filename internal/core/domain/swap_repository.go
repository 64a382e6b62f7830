package domain

import "context"

// SwapRepository is the abstraction for the journal of swaps.
type SwapRepository interface {
	// AddSwap stores a new swap.
	AddSwap(ctx context.Context, swap Swap) error
	// GetSwap returns the swap with the given id or ErrSwapNotFound.
	GetSwap(ctx context.Context, id string) (*Swap, error)
	// GetAllSwaps returns all swaps sorted by time of receipt.
	GetAllSwaps(ctx context.Context) ([]Swap, error)
	// GetPendingSwaps returns the swaps that didn't reach a final status,
	// sorted by time of receipt.
	GetPendingSwaps(ctx context.Context) ([]Swap, error)
	// UpdateSwap replaces the stored swap with the one returned by updateFn.
	UpdateSwap(
		ctx context.Context, id string, updateFn func(swap *Swap) (*Swap, error),
	) error
}
