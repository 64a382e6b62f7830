package pool

import (
	"time"

	"github.com/tdex-network/tdex-amm/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
	"github.com/tdex-network/tdex-amm/pkg/stats"
)

const defaultMetadataTimeout = 30 * time.Second

// Config holds everything needed to start the pool service.
type Config struct {
	OperatorID string
	AssetA     string
	AssetB     string
	// AccountID is the identity of the pool itself, the only caller allowed
	// to invoke the privileged callbacks.
	AccountID string

	Ledger      ports.Ledger
	RepoManager ports.RepoManager
	PubSub      *pubsub.Service
	Metrics     *stats.PoolMetrics

	MetadataTimeout time.Duration
}

func (c Config) validate() error {
	if c.AccountID == "" {
		return errMissing("pool account id")
	}
	if c.Ledger == nil {
		return errMissing("ledger")
	}
	if c.RepoManager == nil {
		return errMissing("repo manager")
	}
	return nil
}

// MetadataResult is the outcome of a metadata query for one asset.
type MetadataResult struct {
	Metadata domain.AssetMetadata
	Err      error
}

// ReserveInfo is the read-only view of one reserve of the pool.
type ReserveInfo struct {
	Name           string           `json:"name"`
	AccountID      string           `json:"account_id"`
	Decimals       uint8            `json:"decimals"`
	Balance        mathutil.Uint128 `json:"balance"`
	DisplayBalance string           `json:"display_balance"`
	// SpotPrice is the price of 1 unit in terms of the counter asset, empty if
	// the pool is not seeded.
	SpotPrice string `json:"spot_price,omitempty"`
}

// ReservesInfo is the read-only view of both reserves of the pool.
type ReservesInfo struct {
	A ReserveInfo `json:"a"`
	B ReserveInfo `json:"b"`
}

// SwapPreview is the quote of a deposit against the committed reserves.
type SwapPreview struct {
	AssetIn       string           `json:"asset_in"`
	AmountIn      mathutil.Uint128 `json:"amount_in"`
	AssetOut      string           `json:"asset_out"`
	AmountOut     mathutil.Uint128 `json:"amount_out"`
	NewBalanceIn  mathutil.Uint128 `json:"new_balance_in"`
	NewBalanceOut mathutil.Uint128 `json:"new_balance_out"`
}

type deposit struct {
	asset  string
	sender string
	amount mathutil.Uint128
}

func (d deposit) GetAsset() string {
	return d.asset
}
func (d deposit) GetSender() string {
	return d.sender
}
func (d deposit) GetAmount() mathutil.Uint128 {
	return d.amount
}

// NewDeposit returns a ports.Deposit for the given funds.
func NewDeposit(asset, sender string, amount mathutil.Uint128) ports.Deposit {
	return deposit{asset, sender, amount}
}

type settlement struct {
	reference string
	outcome   ports.TransferOutcome
}

func (s settlement) GetReference() string {
	return s.reference
}
func (s settlement) GetOutcome() ports.TransferOutcome {
	return s.outcome
}

// NewSettlement returns a ports.Settlement for the given swap reference.
func NewSettlement(
	reference string, outcome ports.TransferOutcome,
) ports.Settlement {
	return settlement{reference, outcome}
}
