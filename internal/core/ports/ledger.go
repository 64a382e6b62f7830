package ports

import (
	"context"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

// Ledger defines the methods of the external asset ledgers used by the pool.
type Ledger interface {
	// GetMetadata returns the display info of the given asset.
	GetMetadata(ctx context.Context, asset string) (domain.AssetMetadata, error)
	// Transfer dispatches an outbound transfer. A nil error only means that
	// the request was accepted; the outcome is delivered asynchronously as a
	// Settlement referencing req.Reference and must never be notified from
	// within this call.
	Transfer(ctx context.Context, req TransferRequest) error
}
