package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amm"

// PoolMetrics collects the metrics of the pool service and of its ledger
// gateway. A nil *PoolMetrics is valid and records nothing.
type PoolMetrics struct {
	deposits       *prometheus.CounterVec
	swaps          *prometheus.CounterVec
	reserves       *prometheus.GaugeVec
	queuedSwaps    prometheus.Gauge
	ledgerRequests *prometheus.CounterVec
}

// NewPoolMetrics creates the pool metrics and registers them with reg.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Count of deposits received by mode and asset.",
		}, []string{"mode", "asset"}),
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "Count of swaps that reached a final status.",
		}, []string{"status"}),
		reserves: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_balance",
			Help:      "Committed reserve balance per asset, in base units.",
		}, []string{"asset"}),
		queuedSwaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_swaps",
			Help:      "Number of deposits waiting for the in-flight swap to settle.",
		}),
		ledgerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_requests_total",
			Help:      "Count of requests made to the ledger gateway by result.",
		}, []string{"method", "result"}),
	}
	reg.MustRegister(
		m.deposits, m.swaps, m.reserves, m.queuedSwaps, m.ledgerRequests,
	)
	return m
}

func (m *PoolMetrics) ObserveDeposit(mode, asset string) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(mode, asset).Inc()
}

func (m *PoolMetrics) ObserveSwap(status string) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(status).Inc()
}

// SetReserve records the balance of an asset. Balances above 2^53 lose
// precision, which is fine for a gauge.
func (m *PoolMetrics) SetReserve(asset string, balance float64) {
	if m == nil {
		return
	}
	m.reserves.WithLabelValues(asset).Set(balance)
}

func (m *PoolMetrics) SetQueuedSwaps(n int) {
	if m == nil {
		return
	}
	m.queuedSwaps.Set(float64(n))
}

func (m *PoolMetrics) ObserveLedgerRequest(method string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ledgerRequests.WithLabelValues(method, result).Inc()
}
