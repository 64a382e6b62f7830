package pool_test

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/inmemory"
)

// **** Ledger ****

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) GetMetadata(
	ctx context.Context, asset string,
) (domain.AssetMetadata, error) {
	args := m.Called(ctx, asset)

	var res domain.AssetMetadata
	if a := args.Get(0); a != nil {
		res = a.(domain.AssetMetadata)
	}
	return res, args.Error(1)
}

func (m *mockLedger) Transfer(
	ctx context.Context, req ports.TransferRequest,
) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// **** Storage ****

var errStorage = errors.New("storage unavailable")

// flakyRepoManager wraps the in-memory repo manager with a swap repository
// whose operations can be made to fail.
type flakyRepoManager struct {
	ports.RepoManager
	swapRepository *flakySwapRepository
}

func newFlakyRepoManager() *flakyRepoManager {
	repoManager := inmemory.NewRepoManager()
	return &flakyRepoManager{
		RepoManager: repoManager,
		swapRepository: &flakySwapRepository{
			SwapRepository: repoManager.SwapRepository(),
			failingGets:    make(map[string]int),
		},
	}
}

func (r *flakyRepoManager) SwapRepository() domain.SwapRepository {
	return r.swapRepository
}

type flakySwapRepository struct {
	domain.SwapRepository

	lock           sync.Mutex
	failingUpdates int
	failingGets    map[string]int
}

func (r *flakySwapRepository) failNextUpdates(n int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.failingUpdates = n
}

func (r *flakySwapRepository) failNextGets(id string, n int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.failingGets[id] = n
}

func (r *flakySwapRepository) GetSwap(
	ctx context.Context, id string,
) (*domain.Swap, error) {
	r.lock.Lock()
	if r.failingGets[id] > 0 {
		r.failingGets[id]--
		r.lock.Unlock()
		return nil, errStorage
	}
	r.lock.Unlock()
	return r.SwapRepository.GetSwap(ctx, id)
}

func (r *flakySwapRepository) UpdateSwap(
	ctx context.Context, id string,
	updateFn func(*domain.Swap) (*domain.Swap, error),
) error {
	r.lock.Lock()
	if r.failingUpdates > 0 {
		r.failingUpdates--
		r.lock.Unlock()
		return errStorage
	}
	r.lock.Unlock()
	return r.SwapRepository.UpdateSwap(ctx, id, updateFn)
}
