package inmemory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/core/application/pool"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/internal/infrastructure/ledger/inmemory"
	dbinmemory "github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/inmemory"
)

func TestSwapOverSimulatedLedger(t *testing.T) {
	t.Parallel()

	ledger := newLedger(t)
	svc := newPoolService(t, ledger)

	info, err := svc.GetReservesInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "Token A", info.A.Name)
	require.Equal(t, uint8(8), info.B.Decimals)

	// The owner seeds the pool.
	require.NoError(t, ledger.Deposit(ctx, assetA, owner, u128(20000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetB, owner, u128(20000000000)))

	invariant, err := svc.GetInvariant(ctx)
	require.NoError(t, err)
	require.Equal(t, "400000000000000000000", invariant.String())

	// Alice receives some A from the owner and swaps it for B.
	require.NoError(t, ledger.Mint(assetA, alice, u128(5000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetA, alice, u128(5000000000)))
	ledger.Wait()

	require.Equal(t, u128(4000000000), ledger.BalanceOf(assetB, alice))
	require.True(t, ledger.BalanceOf(assetA, alice).IsZero())

	info, err = svc.GetReservesInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, u128(25000000000), info.A.Balance)
	require.Equal(t, u128(16000000000), info.B.Balance)
	require.Equal(t, "250", info.A.DisplayBalance)
	require.Equal(t, info.A.Balance, ledger.BalanceOf(assetA, poolAccount))
	require.Equal(t, info.B.Balance, ledger.BalanceOf(assetB, poolAccount))

	swaps, err := svc.ListSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, swaps, 1)
	require.True(t, swaps[0].IsCommitted())
}

func TestFailedPayoutOverSimulatedLedger(t *testing.T) {
	t.Parallel()

	ledger := newLedger(t)
	svc := newPoolService(t, ledger)
	ledger.FailTransfersTo(bob)

	require.NoError(t, ledger.Deposit(ctx, assetA, owner, u128(20000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetB, owner, u128(20000000000)))

	require.NoError(t, ledger.Mint(assetB, bob, u128(1000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetB, bob, u128(1000000000)))
	ledger.Wait()

	// Reserves are untouched and bob's funds stay in custody.
	info, err := svc.GetReservesInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, u128(20000000000), info.A.Balance)
	require.Equal(t, u128(20000000000), info.B.Balance)
	require.True(t, ledger.BalanceOf(assetA, bob).IsZero())
	require.Equal(t, u128(21000000000), ledger.BalanceOf(assetB, poolAccount))

	swaps, err := svc.ListSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, swaps, 1)
	require.True(t, swaps[0].IsAborted())
	require.True(t, swaps[0].IsDispatched())

	// Alice can swap right after.
	require.NoError(t, ledger.Mint(assetA, alice, u128(5000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetA, alice, u128(5000000000)))
	ledger.Wait()
	require.Equal(t, u128(4000000000), ledger.BalanceOf(assetB, alice))
}

func TestConcurrentSwapsOverSimulatedLedger(t *testing.T) {
	t.Parallel()

	ledger := newLedger(t)
	svc := newPoolService(t, ledger)

	require.NoError(t, ledger.Deposit(ctx, assetA, owner, u128(20000000000)))
	require.NoError(t, ledger.Deposit(ctx, assetB, owner, u128(20000000000)))

	traders := []string{"t1.near", "t2.near", "t3.near", "t4.near"}
	for _, trader := range traders {
		require.NoError(t, ledger.Mint(assetA, trader, u128(1000000000)))
	}

	done := make(chan error, len(traders))
	for _, trader := range traders {
		trader := trader
		go func() {
			done <- ledger.Deposit(ctx, assetA, trader, u128(1000000000))
		}()
	}
	for range traders {
		require.NoError(t, <-done)
	}
	ledger.Wait()

	swaps, err := svc.ListSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, swaps, len(traders))
	for _, s := range swaps {
		require.True(t, s.IsCommitted())
	}

	info, err := svc.GetReservesInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, u128(24000000000), info.A.Balance)
	require.Equal(t, info.B.Balance, ledger.BalanceOf(assetB, poolAccount))

	invariant, err := svc.GetInvariant(ctx)
	require.NoError(t, err)
	product, err := info.A.Balance.Mul(info.B.Balance)
	require.NoError(t, err)
	require.Equal(t, product, invariant)
}

func newPoolService(t *testing.T, ledger *inmemory.Ledger) *pool.Service {
	svc, err := pool.NewService(ctx, pool.Config{
		OperatorID:  owner,
		AssetA:      assetA,
		AssetB:      assetB,
		AccountID:   poolAccount,
		Ledger:      ledger,
		RepoManager: dbinmemory.NewRepoManager(),
	})
	require.NoError(t, err)

	ledger.RegisterHandlers(
		func(ctx context.Context, deposit ports.Deposit) error {
			_, err := svc.OnFundsReceived(ctx, deposit)
			return err
		},
		func(ctx context.Context, settlement ports.Settlement) error {
			return svc.OnTransferSettled(ctx, poolAccount, settlement)
		},
	)
	return svc
}
