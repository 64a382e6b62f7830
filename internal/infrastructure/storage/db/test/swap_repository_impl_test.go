package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

func TestSwapRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.name, func(t *testing.T) {
			t.Parallel()

			t.Run("testAddAndGetSwap", func(t *testing.T) {
				testAddAndGetSwap(t, m)
			})

			t.Run("testGetSwapsSortedByReceipt", func(t *testing.T) {
				testGetSwapsSortedByReceipt(t, m)
			})

			t.Run("testUpdateSwapInTransaction", func(t *testing.T) {
				testUpdateSwapInTransaction(t, m)
			})
		})
	}
}

func testAddAndGetSwap(t *testing.T, m repoManager) {
	ctx := context.Background()
	repo := m.SwapRepository()

	swap, err := repo.GetSwap(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrSwapNotFound)
	require.Nil(t, swap)

	newSwap := makeSwap("alice.near", now())
	err = repo.AddSwap(ctx, newSwap)
	require.NoError(t, err)

	swap, err = repo.GetSwap(ctx, newSwap.ID)
	require.NoError(t, err)
	require.Equal(t, newSwap, *swap)
}

func testGetSwapsSortedByReceipt(t *testing.T, m repoManager) {
	ctx := context.Background()
	repo := m.SwapRepository()

	existing, err := repo.GetAllSwaps(ctx)
	require.NoError(t, err)

	base := now()
	third := makeSwap("carol.near", base+3)
	first := makeSwap("alice.near", base+1)
	second := makeSwap("bob.near", base+2)
	for _, s := range []domain.Swap{third, first, second} {
		require.NoError(t, repo.AddSwap(ctx, s))
	}

	err = repo.UpdateSwap(
		ctx, second.ID, func(s *domain.Swap) (*domain.Swap, error) {
			s.Abort("failed")
			return s, nil
		},
	)
	require.NoError(t, err)

	swaps, err := repo.GetAllSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, swaps, len(existing)+3)
	last := swaps[len(swaps)-3:]
	require.Equal(t, first.ID, last[0].ID)
	require.Equal(t, second.ID, last[1].ID)
	require.Equal(t, third.ID, last[2].ID)
	require.True(t, last[1].IsAborted())

	pending, err := repo.GetPendingSwaps(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(pending))
	for _, s := range pending {
		require.True(t, s.IsPending())
		ids = append(ids, s.ID)
	}
	require.Contains(t, ids, first.ID)
	require.Contains(t, ids, third.ID)
	require.NotContains(t, ids, second.ID)
}

func testUpdateSwapInTransaction(t *testing.T, m repoManager) {
	ctx := context.Background()
	repo := m.SwapRepository()

	swap := makeSwap("dave.near", now())
	require.NoError(t, repo.AddSwap(ctx, swap))

	_, err := m.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, repo.UpdateSwap(
				ctx, swap.ID, func(s *domain.Swap) (*domain.Swap, error) {
					s.Abort("failed")
					return s, nil
				},
			)
		},
	)
	require.NoError(t, err)

	got, err := repo.GetSwap(ctx, swap.ID)
	require.NoError(t, err)
	require.True(t, got.IsAborted())
	require.Equal(t, "failed", got.FailureReason)

	_, err = m.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, repo.UpdateSwap(
				ctx, "unknown", func(s *domain.Swap) (*domain.Swap, error) {
					return s, nil
				},
			)
		},
	)
	require.ErrorIs(t, err, domain.ErrSwapNotFound)
}
