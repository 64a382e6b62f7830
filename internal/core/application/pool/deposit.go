package pool

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
)

const (
	depositModeLiquidity = "liquidity"
	depositModeSwap      = "swap"
)

// OnFundsReceived handles funds moved into the custody of the pool.
// Deposits of the operator are added to the reserves right away and no swap
// is returned. Any other deposit is exchanged for the counter asset: the
// returned swap is either dispatched, meaning its payout is waiting for
// settlement, or received, meaning it's queued behind the in-flight swap.
func (s *Service) OnFundsReceived(
	ctx context.Context, deposit ports.Deposit,
) (*domain.Swap, error) {
	asset, sender, amount := deposit.GetAsset(), deposit.GetSender(), deposit.GetAmount()

	s.lock.Lock()
	defer s.lock.Unlock()

	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		return nil, err
	}

	if !pool.SupportsAsset(asset) {
		log.WithFields(log.Fields{
			"asset":  asset,
			"sender": sender,
			"amount": amount.String(),
		}).Warn("received funds of unsupported asset, funds are stranded")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedAsset, asset)
	}
	if amount.IsZero() {
		return nil, domain.ErrZeroAmount
	}

	if pool.IsOperator(sender) {
		return nil, s.addLiquidity(ctx, deposit)
	}

	s.metrics.ObserveDeposit(depositModeSwap, asset)

	swap := domain.NewSwap(sender, asset, amount)
	if err := s.repoManager.SwapRepository().AddSwap(ctx, *swap); err != nil {
		return nil, err
	}

	if s.inFlight != "" || len(s.queue) > 0 {
		s.queue = append(s.queue, swap.ID)
		s.metrics.SetQueuedSwaps(len(s.queue))
		log.Debugf("swap %s queued, %d swaps waiting", swap.ID, len(s.queue))

		// Nothing is in flight only if the queue was stalled by a storage
		// failure, try to drain it again.
		if s.inFlight == "" {
			s.processQueue(ctx)
			current, err := s.repoManager.SwapRepository().GetSwap(ctx, swap.ID)
			if err == nil {
				swap = current
			}
		}
		return swap, nil
	}

	if err := s.dispatchSwap(ctx, swap, *pool); err != nil {
		return nil, err
	}
	return swap, nil
}

func (s *Service) addLiquidity(
	ctx context.Context, deposit ports.Deposit,
) error {
	sender, asset := deposit.GetSender(), deposit.GetAsset()

	var pool *domain.Pool
	if err := s.repoManager.PoolRepository().UpdatePool(
		ctx, func(p *domain.Pool) (*domain.Pool, error) {
			if err := p.AddLiquidity(asset, deposit.GetAmount()); err != nil {
				return nil, err
			}
			pool = p
			return p, nil
		},
	); err != nil {
		return err
	}

	s.metrics.ObserveDeposit(depositModeLiquidity, asset)
	s.setReserveMetrics(*pool)
	log.Infof(
		"operator added %s of %s to reserves, invariant is %s",
		deposit.GetAmount(), asset, pool.Invariant,
	)

	if err := s.pubsub.PublishLiquidityAddedEvent(
		sender, asset, deposit.GetAmount(), *pool,
	); err != nil {
		log.WithError(err).Warn("failed to publish liquidity added event")
	}
	return nil
}

// dispatchSwap quotes a received swap against the committed reserves and
// requests its payout. The swap is persisted as dispatched before the
// transfer is requested so that a settlement can always find it. Any failure
// aborts the swap, leaving the reserves untouched.
func (s *Service) dispatchSwap(
	ctx context.Context, swap *domain.Swap, pool domain.Pool,
) error {
	if err := swap.Quote(pool); err != nil {
		s.abortSwap(ctx, swap, err)
		return err
	}
	quoted := *swap
	if err := swap.Dispatch(); err != nil {
		return err
	}
	if err := s.repoManager.SwapRepository().UpdateSwap(
		ctx, swap.ID, func(_ *domain.Swap) (*domain.Swap, error) {
			return swap, nil
		},
	); err != nil {
		// No transfer was requested, the swap is aborted as quoted.
		*swap = quoted
		err = fmt.Errorf("failed to store dispatched swap: %w", err)
		s.abortSwap(ctx, swap, err)
		return err
	}
	s.inFlight = swap.ID

	if err := s.ledger.Transfer(ctx, ports.TransferRequest{
		Asset:     swap.AssetOut,
		Recipient: swap.Sender,
		Amount:    swap.AmountOut,
		Reference: swap.ID,
	}); err != nil {
		s.inFlight = ""
		err = fmt.Errorf("%w: %s", ErrTransferDispatchFailed, err)
		s.abortSwap(ctx, swap, err)
		return err
	}

	log.Infof(
		"dispatched payout of %s %s to %s for swap %s",
		swap.AmountOut, swap.AssetOut, swap.Sender, swap.ID,
	)
	return nil
}

// abortSwap marks the swap as failed for the given reason. The returned error
// is only about storing it, the swap is aborted anyway.
func (s *Service) abortSwap(
	ctx context.Context, swap *domain.Swap, reason error,
) error {
	swap.Abort(reason.Error())
	if err := s.repoManager.SwapRepository().UpdateSwap(
		ctx, swap.ID, func(_ *domain.Swap) (*domain.Swap, error) {
			return swap, nil
		},
	); err != nil {
		log.WithError(err).Warnf("failed to store aborted swap %s", swap.ID)
		return err
	}

	s.metrics.ObserveSwap("aborted")
	log.WithError(reason).Warnf(
		"swap %s aborted, %s %s stay in custody",
		swap.ID, swap.AmountIn, swap.AssetIn,
	)

	if err := s.pubsub.PublishSwapAbortedEvent(*swap); err != nil {
		log.WithError(err).Warn("failed to publish swap aborted event")
	}
	return nil
}

// processQueue dispatches the queued swaps in order of receipt until one is
// successfully dispatched or the queue is empty. Must be called with the
// lock held.
func (s *Service) processQueue(ctx context.Context) {
	defer func() { s.metrics.SetQueuedSwaps(len(s.queue)) }()

	for s.inFlight == "" && len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		swap, err := s.repoManager.SwapRepository().GetSwap(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSwapNotFound) {
				log.Warnf("queued swap %s not found, dropping it", id)
				continue
			}
			log.WithError(err).Warnf("failed to get queued swap %s", id)
			s.queue = append([]string{id}, s.queue...)
			return
		}
		pool, err := s.repoManager.PoolRepository().GetPool(ctx)
		if err != nil {
			log.WithError(err).Warnf("failed to get pool for queued swap %s", id)
			s.queue = append([]string{id}, s.queue...)
			return
		}

		if err := s.dispatchSwap(ctx, swap, *pool); err != nil {
			log.WithError(err).Warnf("failed to dispatch queued swap %s", id)
		}
	}
}
