package ports

import (
	"context"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
)

// RepoManager interface defines the methods for pool and swap repositories.
type RepoManager interface {
	PoolRepository() domain.PoolRepository
	SwapRepository() domain.SwapRepository

	// RunTransaction executes the handler within a single storage
	// transaction. Changes are committed only if the handler doesn't error.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
