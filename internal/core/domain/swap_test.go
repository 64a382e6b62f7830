package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

func TestNewSwap(t *testing.T) {
	swap := domain.NewSwap(trader, assetA, u128(10))
	require.NotEmpty(t, swap.ID)
	require.Equal(t, trader, swap.Sender)
	require.Equal(t, assetA, swap.AssetIn)
	require.Empty(t, swap.AssetOut)
	require.True(t, swap.IsReceived())
	require.True(t, swap.IsPending())
	require.NotZero(t, swap.Timestamp.Received)
	require.Equal(t, "RECEIVED", swap.Status.String())

	other := domain.NewSwap(trader, assetA, u128(10))
	require.NotEqual(t, swap.ID, other.ID)
}

func TestSwapQuote(t *testing.T) {
	pool := newSeededPool(t, 20000000000, 20000000000)
	swap := domain.NewSwap(trader, assetA, u128(5000000000))

	err := swap.Quote(*pool)
	require.NoError(t, err)
	require.True(t, swap.IsQuoted())
	require.Equal(t, assetB, swap.AssetOut)
	require.Equal(t, u128(4000000000), swap.AmountOut)
	require.Equal(t, u128(20000000000), swap.BalanceIn)
	require.Equal(t, u128(20000000000), swap.BalanceOut)
	require.Equal(t, u128(25000000000), swap.NewBalanceIn)
	require.Equal(t, u128(16000000000), swap.NewBalanceOut)
}

func TestFailingSwapQuote(t *testing.T) {
	t.Run("not_received", func(t *testing.T) {
		pool := newSeededPool(t, 100, 100)
		swap := newDispatchedSwap(t, pool, assetA, 10)

		err := swap.Quote(*pool)
		require.ErrorIs(t, err, domain.ErrSwapMustBeReceived)
	})

	t.Run("unsupported_asset", func(t *testing.T) {
		pool := newSeededPool(t, 100, 100)
		swap := domain.NewSwap(trader, "token-c.near", u128(10))

		err := swap.Quote(*pool)
		require.ErrorIs(t, err, domain.ErrUnsupportedAsset)
		require.True(t, swap.IsReceived())
	})

	t.Run("not_seeded", func(t *testing.T) {
		swap := domain.NewSwap(trader, assetA, u128(10))

		err := swap.Quote(*newPool(t))
		require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
		require.True(t, swap.IsReceived())
		require.True(t, swap.AmountOut.IsZero())
	})
}

func TestSwapLifecycle(t *testing.T) {
	pool := newSeededPool(t, 100, 100)
	swap := domain.NewSwap(trader, assetA, u128(10))

	require.ErrorIs(t, swap.Dispatch(), domain.ErrSwapMustBeQuoted)
	require.ErrorIs(t, swap.Commit(), domain.ErrSwapMustBeDispatched)

	require.NoError(t, swap.Quote(*pool))
	require.ErrorIs(t, swap.Commit(), domain.ErrSwapMustBeDispatched)

	require.NoError(t, swap.Dispatch())
	require.True(t, swap.IsDispatched())
	require.NotZero(t, swap.Timestamp.Dispatched)
	require.ErrorIs(t, swap.Dispatch(), domain.ErrSwapMustBeQuoted)

	require.NoError(t, swap.Commit())
	require.True(t, swap.IsCommitted())
	require.False(t, swap.IsPending())
	require.NotZero(t, swap.Timestamp.Settled)

	// Commit is idempotent and a committed swap can't be aborted.
	require.NoError(t, swap.Commit())
	swap.Abort("late failure")
	require.False(t, swap.IsAborted())
	require.Empty(t, swap.FailureReason)
}

func TestSwapAbort(t *testing.T) {
	pool := newSeededPool(t, 100, 100)
	swap := newDispatchedSwap(t, pool, assetA, 10)

	swap.Abort("transfer failed")
	require.True(t, swap.IsAborted())
	require.True(t, swap.IsDispatched())
	require.False(t, swap.IsPending())
	require.Equal(t, "transfer failed", swap.FailureReason)
	require.Equal(t, "DISPATCHED_ABORTED", swap.Status.String())

	swap.Abort("other reason")
	require.Equal(t, "transfer failed", swap.FailureReason)

	require.ErrorIs(t, swap.Commit(), domain.ErrSwapMustBeDispatched)
}

func TestSwapRequeue(t *testing.T) {
	pool := newSeededPool(t, 100, 100)
	swap := domain.NewSwap(trader, assetA, u128(10))
	require.NoError(t, swap.Quote(*pool))

	swap.Requeue()
	require.True(t, swap.IsReceived())
	require.Empty(t, swap.AssetOut)
	require.True(t, swap.AmountOut.IsZero())

	require.NoError(t, pool.AddLiquidity(assetB, u128(100)))
	require.NoError(t, swap.Quote(*pool))
	require.Equal(t, u128(200), swap.BalanceOut)
	require.Equal(t, u128(19), swap.AmountOut)
}
