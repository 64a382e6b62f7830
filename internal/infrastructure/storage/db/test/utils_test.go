package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

const (
	operator = "operator.near"
	assetA   = "token-a.near"
	assetB   = "token-b.near"
)

var maxUint128 = mathutil.MustParseUint128("340282366920938463463374607431768211455")

type repoManager struct {
	name string
	ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryBadger, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	onDiskBadger, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)

	managers := []repoManager{
		{"inmemory", inmemory.NewRepoManager()},
		{"badger_inmemory", inmemoryBadger},
		{"badger", onDiskBadger},
	}
	t.Cleanup(func() {
		for _, m := range managers {
			m.Close()
		}
	})
	return managers
}

func makePool(t *testing.T) domain.Pool {
	pool, err := domain.NewPool(operator, assetA, assetB)
	require.NoError(t, err)
	return *pool
}

func makeSwap(sender string, received int64) domain.Swap {
	swap := domain.NewSwap(sender, assetA, mathutil.NewUint128(10))
	swap.Timestamp.Received = received
	return *swap
}

func now() int64 {
	return time.Now().UnixNano()
}
