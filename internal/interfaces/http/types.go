package httpinterface

import (
	"context"
	"time"

	"github.com/tdex-network/tdex-amm/internal/core/application/pool"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

// PoolService is the subset of the pool application service exposed over
// HTTP.
type PoolService interface {
	OnFundsReceived(ctx context.Context, deposit ports.Deposit) (*domain.Swap, error)
	OnTransferSettled(
		ctx context.Context, caller string, settlement ports.Settlement,
	) error
	GetReservesInfo(ctx context.Context) (*pool.ReservesInfo, error)
	GetInvariant(ctx context.Context) (mathutil.Uint128, error)
	PreviewSwap(
		ctx context.Context, asset string, amount mathutil.Uint128,
	) (*pool.SwapPreview, error)
	GetSwap(ctx context.Context, id string) (*domain.Swap, error)
	ListSwaps(ctx context.Context) ([]domain.Swap, error)
	AbortInFlightSwap(
		ctx context.Context, caller, swapID string,
	) (*domain.Swap, error)
}

type depositRequest struct {
	SenderID string           `json:"sender_id"`
	Amount   mathutil.Uint128 `json:"amount"`
}

type settlementRequest struct {
	Reference string `json:"reference"`
	Outcome   string `json:"outcome"`
}

type depositResponse struct {
	// Swap is empty for liquidity deposits.
	Swap *swapInfo `json:"swap,omitempty"`
}

type invariantResponse struct {
	Invariant mathutil.Uint128 `json:"invariant"`
}

type swapInfo struct {
	ID            string           `json:"id"`
	Sender        string           `json:"sender"`
	AssetIn       string           `json:"asset_in"`
	AmountIn      mathutil.Uint128 `json:"amount_in"`
	AssetOut      string           `json:"asset_out,omitempty"`
	AmountOut     mathutil.Uint128 `json:"amount_out"`
	Status        string           `json:"status"`
	FailureReason string           `json:"failure_reason,omitempty"`
	ReceivedAt    string           `json:"received_at"`
	DispatchedAt  string           `json:"dispatched_at,omitempty"`
	SettledAt     string           `json:"settled_at,omitempty"`
}

func newSwapInfo(swap domain.Swap) *swapInfo {
	return &swapInfo{
		ID:            swap.ID,
		Sender:        swap.Sender,
		AssetIn:       swap.AssetIn,
		AmountIn:      swap.AmountIn,
		AssetOut:      swap.AssetOut,
		AmountOut:     swap.AmountOut,
		Status:        swap.Status.String(),
		FailureReason: swap.FailureReason,
		ReceivedAt:    formatTimestamp(swap.Timestamp.Received),
		DispatchedAt:  formatTimestamp(swap.Timestamp.Dispatched),
		SettledAt:     formatTimestamp(swap.Timestamp.Settled),
	}
}

func formatTimestamp(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(0, ts).UTC().Format(time.RFC3339Nano)
}
