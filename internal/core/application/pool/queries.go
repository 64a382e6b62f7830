package pool

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

// GetReservesInfo returns the committed state of both reserves.
func (s *Service) GetReservesInfo(ctx context.Context) (*ReservesInfo, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving pool")
		return nil, ErrServiceUnavailable
	}

	return &ReservesInfo{
		A: reserveInfo(*pool, pool.ReserveA),
		B: reserveInfo(*pool, pool.ReserveB),
	}, nil
}

// GetInvariant returns the product of the committed reserve balances.
func (s *Service) GetInvariant(ctx context.Context) (mathutil.Uint128, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving pool")
		return mathutil.Uint128{}, ErrServiceUnavailable
	}
	return pool.Invariant, nil
}

// PreviewSwap returns what a deposit of amount of asset would pay out if it
// was quoted against the committed reserves. Nothing is changed.
func (s *Service) PreviewSwap(
	ctx context.Context, asset string, amount mathutil.Uint128,
) (*SwapPreview, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving pool")
		return nil, ErrServiceUnavailable
	}

	assetOut, err := pool.CounterAsset(asset)
	if err != nil {
		return nil, err
	}
	quote, err := pool.QuoteSwap(asset, amount)
	if err != nil {
		return nil, err
	}

	return &SwapPreview{
		AssetIn:       asset,
		AmountIn:      amount,
		AssetOut:      assetOut,
		AmountOut:     quote.AmountOut,
		NewBalanceIn:  quote.NewBalanceIn,
		NewBalanceOut: quote.NewBalanceOut,
	}, nil
}

func (s *Service) GetSwap(ctx context.Context, id string) (*domain.Swap, error) {
	swap, err := s.repoManager.SwapRepository().GetSwap(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSwapNotFound) {
			return nil, err
		}
		log.WithError(err).Debugf("error while retrieving swap %s", id)
		return nil, ErrServiceUnavailable
	}
	return swap, nil
}

// ListSwaps returns all swaps in order of receipt.
func (s *Service) ListSwaps(ctx context.Context) ([]domain.Swap, error) {
	swaps, err := s.repoManager.SwapRepository().GetAllSwaps(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving swaps")
		return nil, ErrServiceUnavailable
	}
	return swaps, nil
}

func reserveInfo(pool domain.Pool, reserve domain.AssetReserve) ReserveInfo {
	info := ReserveInfo{
		Name:           reserve.Name,
		AccountID:      reserve.AssetID,
		Decimals:       reserve.Precision,
		Balance:        reserve.Balance,
		DisplayBalance: reserve.DisplayBalance().String(),
	}
	if price, err := pool.SpotPrice(reserve.AssetID); err == nil {
		info.SpotPrice = price.String()
	}
	return info
}
