package domain

import (
	"errors"

	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

var (
	// ErrPoolInvalidOperator is returned when creating a pool without operator.
	ErrPoolInvalidOperator = errors.New("operator account must not be empty")
	// ErrPoolInvalidAsset is returned when creating a pool with an empty asset.
	ErrPoolInvalidAsset = errors.New("asset account must not be empty")
	// ErrPoolDuplicatedAsset is returned when both assets of a pool are equal.
	ErrPoolDuplicatedAsset = errors.New("pool assets must be different")
	// ErrPoolNotFound ...
	ErrPoolNotFound = errors.New("pool not found")

	// ErrUnsupportedAsset is returned for deposits of an asset the pool
	// doesn't track. The funds are already in custody and remain stranded.
	ErrUnsupportedAsset = errors.New("unsupported asset")
	// ErrOverflow is returned when a balance or the invariant would exceed
	// the 128-bit range.
	ErrOverflow = mathutil.ErrOverflow
	// ErrInsufficientLiquidity is returned when the payout of a swap can't be
	// covered by the reserve of the outbound asset.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrZeroAmount ...
	ErrZeroAmount = errors.New("amount must be greater than zero")
	// ErrSwapAmountTooLow is returned when the quoted payout is zero.
	ErrSwapAmountTooLow = errors.New("swap amount is too low")
	// ErrSettlementNotReady is returned when a settlement is notified before
	// the outcome of the transfer is known.
	ErrSettlementNotReady = errors.New("settlement outcome is not ready")
	// ErrSettlementFailed is returned when the payout transfer of a swap
	// failed. The inbound funds stay in custody with no reserve update.
	ErrSettlementFailed = errors.New("settlement failed")
	// ErrMetadataFetchFailed is returned when the metadata of any pool asset
	// couldn't be fetched.
	ErrMetadataFetchFailed = errors.New("failed to fetch asset metadata")

	// ErrSwapMustBeReceived ...
	ErrSwapMustBeReceived = errors.New("swap must be in received status")
	// ErrSwapMustBeQuoted ...
	ErrSwapMustBeQuoted = errors.New("swap must be in quoted status")
	// ErrSwapMustBeDispatched ...
	ErrSwapMustBeDispatched = errors.New("swap must be in dispatched status")
	// ErrSwapNotFound ...
	ErrSwapNotFound = errors.New("swap not found")
	// ErrSwapAssetMismatch is returned when applying a swap to a pool that
	// doesn't hold its assets.
	ErrSwapAssetMismatch = errors.New("swap assets do not match pool assets")
)
