package pubsub

import (
	"encoding/json"
	"time"

	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

// Service publishes the events of the pool. A nil *Service publishes nothing.
type Service struct {
	pubsub ports.PubSub
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) PublishLiquidityAddedEvent(
	sender, asset string, amount mathutil.Uint128, pool domain.Pool,
) error {
	topic := ports.TopicLiquidityAdded
	payload := map[string]interface{}{
		"event":    topic,
		"sender":   sender,
		"asset":    asset,
		"amount":   amount,
		"reserves": getReservesPayload(pool),
	}
	return s.publish(topic, payload)
}

func (s *Service) PublishSwapCommittedEvent(
	swap domain.Swap, pool domain.Pool,
) error {
	topic := ports.TopicSwapCommitted
	payload := map[string]interface{}{
		"event":           topic,
		"swap":            getSwapPayload(swap),
		"reserves":        getReservesPayload(pool),
		"settlement_date": time.Unix(0, swap.Timestamp.Settled).Format(time.RFC3339),
	}
	return s.publish(topic, payload)
}

func (s *Service) PublishSwapAbortedEvent(swap domain.Swap) error {
	topic := ports.TopicSwapAborted
	payload := map[string]interface{}{
		"event":  topic,
		"swap":   getSwapPayload(swap),
		"reason": swap.FailureReason,
	}
	return s.publish(topic, payload)
}

func (s *Service) Close() {
	if s == nil || s.pubsub == nil {
		return
	}
	s.pubsub.Close()
}

func (s *Service) publish(topic ports.Topic, payload interface{}) error {
	if s == nil || s.pubsub == nil {
		return nil
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.pubsub.Publish(topic, string(message))
}

func getSwapPayload(swap domain.Swap) map[string]interface{} {
	return map[string]interface{}{
		"id":         swap.ID,
		"sender":     swap.Sender,
		"asset_in":   swap.AssetIn,
		"amount_in":  swap.AmountIn,
		"asset_out":  swap.AssetOut,
		"amount_out": swap.AmountOut,
		"status":     swap.Status.String(),
	}
}

func getReservesPayload(pool domain.Pool) map[string]interface{} {
	return map[string]interface{}{
		pool.ReserveA.AssetID: pool.ReserveA.Balance,
		pool.ReserveB.AssetID: pool.ReserveB.Balance,
		"invariant":           pool.Invariant,
	}
}
