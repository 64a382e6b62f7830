package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	dbbadger "github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

func TestBadgerRoundTrip128BitBalances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	balanceB := mathutil.MustParseUint128("18446744073709551617")

	m, err := dbbadger.NewRepoManager(dir, nil)
	require.NoError(t, err)

	pool := makePool(t)
	require.NoError(t, pool.AddLiquidity(assetA, mathutil.NewUint128(3)))
	require.NoError(t, pool.AddLiquidity(assetB, balanceB))
	require.NoError(t, m.PoolRepository().AddPool(ctx, pool))

	swap := makeSwap("alice.near", now())
	swap.AmountIn = maxUint128
	require.NoError(t, m.SwapRepository().AddSwap(ctx, swap))
	m.Close()

	m, err = dbbadger.NewRepoManager(dir, nil)
	require.NoError(t, err)
	defer m.Close()

	got, err := m.PoolRepository().GetPool(ctx)
	require.NoError(t, err)
	require.Equal(t, balanceB, got.ReserveB.Balance)
	require.Equal(t, "55340232221128654851", got.Invariant.String())

	gotSwap, err := m.SwapRepository().GetSwap(ctx, swap.ID)
	require.NoError(t, err)
	require.Equal(t, maxUint128, gotSwap.AmountIn)
	require.Equal(t, domain.SwapStatusCodeReceived, gotSwap.Status.Code)
}
