package pool

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
)

// OnTransferSettled is the privileged callback notified with the outcome of
// the payout transfer of a swap. On success the reserve pair proposed by the
// swap is committed, on failure the swap is aborted and the reserves are left
// untouched. Either way the next queued swap, if any, is dispatched.
func (s *Service) OnTransferSettled(
	ctx context.Context, caller string, settlement ports.Settlement,
) error {
	if caller != s.accountID {
		return ErrUnauthorizedCaller
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	swapID := settlement.GetReference()
	swap, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
	if err != nil {
		return err
	}
	if !swap.IsDispatched() || swap.IsAborted() {
		return domain.ErrSwapMustBeDispatched
	}

	switch outcome := settlement.GetOutcome(); outcome {
	case ports.TransferOutcomeNotReady:
		log.Errorf(
			"settlement of swap %s notified before its outcome is known", swapID,
		)
		return domain.ErrSettlementNotReady

	case ports.TransferOutcomeFailed:
		s.abortSwap(ctx, swap, domain.ErrSettlementFailed)
		s.releaseInFlight(ctx, swapID)
		return domain.ErrSettlementFailed

	case ports.TransferOutcomeSuccess:
		pool, err := s.commitSwap(ctx, swapID)
		if err != nil {
			log.WithError(err).Errorf("failed to commit swap %s", swapID)
			return err
		}

		s.metrics.ObserveSwap("committed")
		s.setReserveMetrics(*pool)
		log.Infof(
			"swap %s committed, reserves are %s %s and %s %s",
			swapID, pool.ReserveA.Balance, pool.ReserveA.AssetID,
			pool.ReserveB.Balance, pool.ReserveB.AssetID,
		)

		committed, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
		if err == nil {
			if err := s.pubsub.PublishSwapCommittedEvent(
				*committed, *pool,
			); err != nil {
				log.WithError(err).Warn("failed to publish swap committed event")
			}
		}

		s.releaseInFlight(ctx, swapID)
		return nil

	default:
		return fmt.Errorf("unknown transfer outcome %d", outcome)
	}
}

// commitSwap applies the swap to the reserves and marks it as committed
// within a single storage transaction.
func (s *Service) commitSwap(
	ctx context.Context, swapID string,
) (*domain.Pool, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			swap, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
			if err != nil {
				return nil, err
			}

			var pool *domain.Pool
			if err := s.repoManager.PoolRepository().UpdatePool(
				ctx, func(p *domain.Pool) (*domain.Pool, error) {
					if err := p.ApplySwap(*swap); err != nil {
						return nil, err
					}
					pool = p
					return p, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, swapID, func(sw *domain.Swap) (*domain.Swap, error) {
					if err := sw.Commit(); err != nil {
						return nil, err
					}
					return sw, nil
				},
			); err != nil {
				return nil, err
			}
			return pool, nil
		},
	)
	if err != nil {
		return nil, err
	}
	pool, ok := res.(*domain.Pool)
	if !ok {
		return nil, errors.New("unexpected result of commit transaction")
	}
	return pool, nil
}

// AbortInFlightSwap lets the operator give up on the in-flight swap when its
// settlement can't be committed or will never be notified. The swap is
// aborted, the reserves are left untouched and the queued swaps are
// dispatched. As for a failed settlement, the deposited funds stay in custody.
func (s *Service) AbortInFlightSwap(
	ctx context.Context, caller, swapID string,
) (*domain.Swap, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		return nil, err
	}
	if !pool.IsOperator(caller) {
		return nil, ErrUnauthorizedCaller
	}
	if s.inFlight == "" || s.inFlight != swapID {
		return nil, ErrSwapNotInFlight
	}

	swap, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if err := s.abortSwap(ctx, swap, ErrSwapAbortedByOperator); err != nil {
		return nil, err
	}

	log.Warnf("operator released in-flight swap %s", swapID)
	s.releaseInFlight(ctx, swapID)
	return swap, nil
}

func (s *Service) releaseInFlight(ctx context.Context, swapID string) {
	if s.inFlight == swapID {
		s.inFlight = ""
	}
	s.processQueue(ctx)
}
