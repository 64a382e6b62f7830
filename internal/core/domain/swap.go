package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-amm/pkg/marketmaking"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

const (
	SwapStatusCodeUndefined = iota
	SwapStatusCodeReceived
	SwapStatusCodeQuoted
	SwapStatusCodeDispatched
	SwapStatusCodeCommitted
)

var swapStatusLabels = map[int]string{
	SwapStatusCodeUndefined:  "UNDEFINED",
	SwapStatusCodeReceived:   "RECEIVED",
	SwapStatusCodeQuoted:     "QUOTED",
	SwapStatusCodeDispatched: "DISPATCHED",
	SwapStatusCodeCommitted:  "COMMITTED",
}

// SwapStatus represents the different statuses that a swap can assume. A
// failed swap keeps the code of the step where it was aborted.
type SwapStatus struct {
	Code   int
	Failed bool
}

// String returns a label for the status, ie. DISPATCHED or DISPATCHED_ABORTED.
func (s SwapStatus) String() string {
	label := swapStatusLabels[s.Code]
	if s.Failed {
		label += "_ABORTED"
	}
	return label
}

// SwapTimestamp ...
type SwapTimestamp struct {
	Received   int64
	Dispatched int64
	Settled    int64
}

// Swap is the data structure representing the exchange of a counterparty
// deposit for the counter asset. It carries the reserve pair proposed at
// quote time through the asynchronous payout, along with the pair it was
// computed from.
type Swap struct {
	ID       string
	Sender   string
	AssetIn  string
	AssetOut string
	AmountIn mathutil.Uint128
	// AmountOut is the payout sent to the sender.
	AmountOut mathutil.Uint128
	// BalanceIn and BalanceOut are the committed balances the swap was
	// quoted from.
	BalanceIn  mathutil.Uint128
	BalanceOut mathutil.Uint128
	// NewBalanceIn and NewBalanceOut are the balances proposed for commit
	// once the payout is confirmed.
	NewBalanceIn  mathutil.Uint128
	NewBalanceOut mathutil.Uint128
	Status        SwapStatus
	FailureReason string
	Timestamp     SwapTimestamp
}

// NewSwap returns a swap in Received status for a deposit of amount of asset
// made by sender.
func NewSwap(sender, asset string, amount mathutil.Uint128) *Swap {
	return &Swap{
		ID:        uuid.New().String(),
		Sender:    sender,
		AssetIn:   asset,
		AmountIn:  amount,
		Status:    SwapStatus{Code: SwapStatusCodeReceived},
		Timestamp: SwapTimestamp{Received: time.Now().UnixNano()},
	}
}

// Quote brings a Received swap to the Quoted status by pricing it against
// the given pool. The pool is not modified.
func (s *Swap) Quote(pool Pool) error {
	if s.Status.Code != SwapStatusCodeReceived || s.Status.Failed {
		return ErrSwapMustBeReceived
	}

	assetOut, err := pool.CounterAsset(s.AssetIn)
	if err != nil {
		return err
	}
	quote, err := pool.QuoteSwap(s.AssetIn, s.AmountIn)
	if err != nil {
		return err
	}
	reserveIn, reserveOut, _ := pool.reserves(s.AssetIn)

	s.setQuote(assetOut, reserveIn.Balance, reserveOut.Balance, *quote)
	return nil
}

func (s *Swap) setQuote(
	assetOut string, balanceIn, balanceOut mathutil.Uint128,
	quote marketmaking.Quote,
) {
	s.AssetOut = assetOut
	s.AmountOut = quote.AmountOut
	s.BalanceIn = balanceIn
	s.BalanceOut = balanceOut
	s.NewBalanceIn = quote.NewBalanceIn
	s.NewBalanceOut = quote.NewBalanceOut
	s.Status.Code = SwapStatusCodeQuoted
}

// Dispatch brings a Quoted swap to the Dispatched status, meaning that the
// payout transfer has been requested.
func (s *Swap) Dispatch() error {
	if s.Status.Code != SwapStatusCodeQuoted || s.Status.Failed {
		return ErrSwapMustBeQuoted
	}

	s.Status.Code = SwapStatusCodeDispatched
	s.Timestamp.Dispatched = time.Now().UnixNano()
	return nil
}

// Commit brings a Dispatched swap to the Committed status once its payout is
// confirmed.
func (s *Swap) Commit() error {
	if s.Status.Code == SwapStatusCodeCommitted {
		return nil
	}
	if !s.IsDispatched() || s.Status.Failed {
		return ErrSwapMustBeDispatched
	}

	s.Status.Code = SwapStatusCodeCommitted
	s.Timestamp.Settled = time.Now().UnixNano()
	return nil
}

// Abort marks the swap as failed for the given reason. Committed swaps can't
// be aborted.
func (s *Swap) Abort(reason string) {
	if s.Status.Failed || s.IsCommitted() {
		return
	}

	s.Status.Failed = true
	s.FailureReason = reason
	s.Timestamp.Settled = time.Now().UnixNano()
}

// Requeue brings back to Received a swap that was quoted but never
// dispatched, so that it gets quoted again.
func (s *Swap) Requeue() {
	if s.Status.Code != SwapStatusCodeQuoted || s.Status.Failed {
		return
	}

	s.AssetOut = ""
	s.AmountOut = mathutil.Uint128{}
	s.BalanceIn = mathutil.Uint128{}
	s.BalanceOut = mathutil.Uint128{}
	s.NewBalanceIn = mathutil.Uint128{}
	s.NewBalanceOut = mathutil.Uint128{}
	s.Status.Code = SwapStatusCodeReceived
}

// IsReceived returns whether the swap is waiting to be quoted.
func (s *Swap) IsReceived() bool {
	return s.Status.Code == SwapStatusCodeReceived
}

// IsQuoted ...
func (s *Swap) IsQuoted() bool {
	return s.Status.Code == SwapStatusCodeQuoted
}

// IsDispatched returns whether the payout of the swap is in flight.
func (s *Swap) IsDispatched() bool {
	return s.Status.Code == SwapStatusCodeDispatched
}

// IsCommitted ...
func (s *Swap) IsCommitted() bool {
	return s.Status.Code == SwapStatusCodeCommitted
}

// IsAborted ...
func (s *Swap) IsAborted() bool {
	return s.Status.Failed
}

// IsPending returns whether the swap didn't reach a final status yet.
func (s *Swap) IsPending() bool {
	return !s.IsAborted() && !s.IsCommitted()
}
