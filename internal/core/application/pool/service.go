package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// Service is the single owner of the pool state. Every operation that changes
// the state runs under the service lock, and at most one swap is in flight at
// any time: counterparty deposits received meanwhile are queued and quoted
// only once the in-flight swap settles.
type Service struct {
	lock sync.Mutex

	accountID   string
	ledger      ports.Ledger
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
	metrics     *stats.PoolMetrics

	// inFlight is the id of the swap whose payout is waiting for settlement.
	inFlight string
	// queue holds the ids of the swaps received while another one was in
	// flight, in order of receipt.
	queue []string
}

// NewService loads the stored pool, or creates it, and makes sure the
// metadata of both assets is known. Swaps left pending by a previous run are
// restored.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	svc := &Service{
		accountID:   cfg.AccountID,
		ledger:      cfg.Ledger,
		repoManager: cfg.RepoManager,
		pubsub:      cfg.PubSub,
		metrics:     cfg.Metrics,
	}

	pool, err := svc.getOrCreatePool(ctx, cfg.OperatorID, cfg.AssetA, cfg.AssetB)
	if err != nil {
		return nil, err
	}

	if !pool.MetadataFetched {
		timeout := cfg.MetadataTimeout
		if timeout <= 0 {
			timeout = defaultMetadataTimeout
		}
		resultA, resultB := svc.fetchMetadata(
			ctx, timeout, pool.ReserveA.AssetID, pool.ReserveB.AssetID,
		)
		if err := svc.OnMetadataFetched(
			ctx, svc.accountID, resultA, resultB,
		); err != nil {
			return nil, err
		}
	}

	if err := svc.restorePendingSwaps(ctx); err != nil {
		return nil, err
	}

	svc.setReserveMetrics(*pool)
	return svc, nil
}

// OnMetadataFetched is the privileged callback that joins the outcome of the
// metadata queries of both assets. Only the first successful invocation has
// effect.
func (s *Service) OnMetadataFetched(
	ctx context.Context, caller string, resultA, resultB MetadataResult,
) error {
	if caller != s.accountID {
		return ErrUnauthorizedCaller
	}

	if err := errors.Join(resultA.Err, resultB.Err); err != nil {
		log.WithError(err).Error("failed to fetch pool assets metadata")
		return fmt.Errorf("%w: %s", domain.ErrMetadataFetchFailed, err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.PoolRepository().UpdatePool(
		ctx, func(pool *domain.Pool) (*domain.Pool, error) {
			pool.SetMetadata(resultA.Metadata, resultB.Metadata)
			return pool, nil
		},
	); err != nil {
		return err
	}

	log.Infof(
		"pool assets metadata set: %s (%d decimals), %s (%d decimals)",
		resultA.Metadata.Name, resultA.Metadata.Precision,
		resultB.Metadata.Name, resultB.Metadata.Precision,
	)
	return nil
}

func (s *Service) Close() {
	s.pubsub.Close()
	s.repoManager.Close()
}

func (s *Service) getOrCreatePool(
	ctx context.Context, operatorID, assetA, assetB string,
) (*domain.Pool, error) {
	newPool, err := domain.NewPool(operatorID, assetA, assetB)
	if err != nil {
		return nil, err
	}

	pool, err := s.repoManager.PoolRepository().GetPool(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPoolNotFound) {
			return nil, err
		}
		if err := s.repoManager.PoolRepository().AddPool(ctx, *newPool); err != nil {
			return nil, err
		}
		log.Infof("created pool for assets %s and %s", assetA, assetB)
		return newPool, nil
	}

	if pool.OperatorID != operatorID ||
		pool.ReserveA.AssetID != assetA || pool.ReserveB.AssetID != assetB {
		return nil, ErrPoolMismatch
	}
	return pool, nil
}

// fetchMetadata queries the metadata of both assets concurrently. The
// queries share the given timeout and a failure of one cancels the other.
func (s *Service) fetchMetadata(
	ctx context.Context, timeout time.Duration, assetA, assetB string,
) (MetadataResult, MetadataResult) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]MetadataResult, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range []string{assetA, assetB} {
		i, asset := i, asset
		g.Go(func() error {
			metadata, err := s.ledger.GetMetadata(gctx, asset)
			if err != nil {
				err = fmt.Errorf("%s: %w", asset, err)
			}
			results[i] = MetadataResult{metadata, err}
			return err
		})
	}
	// Errors are carried by the results.
	_ = g.Wait()

	return results[0], results[1]
}

// restorePendingSwaps brings back in memory the state of the swaps left
// pending by a previous run: the first dispatched swap is in flight again and
// any other dispatched one is aborted, while received or quoted ones are
// queued in order of receipt.
func (s *Service) restorePendingSwaps(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	swaps, err := s.repoManager.SwapRepository().GetPendingSwaps(ctx)
	if err != nil {
		return err
	}

	for i := range swaps {
		swap := swaps[i]
		switch {
		case swap.IsDispatched():
			if s.inFlight != "" {
				log.Warnf(
					"swap %s is dispatched while %s is already in flight",
					swap.ID, s.inFlight,
				)
				if err := s.abortSwap(ctx, &swap, ErrSwapAlreadyInFlight); err != nil {
					return err
				}
				continue
			}
			s.inFlight = swap.ID
			log.Infof("swap %s is waiting for settlement", swap.ID)
		case swap.IsQuoted():
			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, swap.ID, func(sw *domain.Swap) (*domain.Swap, error) {
					sw.Requeue()
					return sw, nil
				},
			); err != nil {
				return err
			}
			s.queue = append(s.queue, swap.ID)
		case swap.IsReceived():
			s.queue = append(s.queue, swap.ID)
		}
	}

	if len(s.queue) > 0 {
		log.Infof("restored %d queued swaps", len(s.queue))
	}
	s.processQueue(ctx)
	return nil
}

func (s *Service) setReserveMetrics(pool domain.Pool) {
	s.metrics.SetReserve(pool.ReserveA.AssetID, pool.ReserveA.Balance.Float64())
	s.metrics.SetReserve(pool.ReserveB.AssetID, pool.ReserveB.Balance.Float64())
	s.metrics.SetQueuedSwaps(len(s.queue))
}

func errMissing(what string) error {
	return fmt.Errorf("missing %s", what)
}
