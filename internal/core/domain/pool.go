package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-amm/pkg/marketmaking"
	"github.com/tdex-network/tdex-amm/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

var strategy = marketmaking.NewStrategyFromFormula(
	"constant-product", formula.ConstantProduct{},
)

// AssetMetadata is the display info of an asset, as returned by its ledger.
type AssetMetadata struct {
	Name      string
	Precision uint8
}

// AssetReserve holds the state of one of the assets of the pool.
type AssetReserve struct {
	// AssetID is the identity of the asset on its external ledger.
	AssetID   string
	Name      string
	Precision uint8
	// Balance is the amount of the asset currently held by the pool.
	Balance mathutil.Uint128
}

// DisplayBalance returns the balance expressed in units of the asset.
func (r AssetReserve) DisplayBalance() decimal.Decimal {
	return r.Balance.ToDecimal(r.Precision)
}

// Pool defines the pool entity data structure holding the reserves of an
// asset pair.
type Pool struct {
	// OperatorID is the account allowed to add liquidity without swapping.
	OperatorID string
	ReserveA   AssetReserve
	ReserveB   AssetReserve
	// Invariant is the product of the two committed balances.
	Invariant mathutil.Uint128
	// MetadataFetched is set once the display info of both assets is known.
	MetadataFetched bool
}

// NewPool returns an empty pool for the given operator and asset pair.
func NewPool(operatorID, assetA, assetB string) (*Pool, error) {
	if operatorID == "" {
		return nil, ErrPoolInvalidOperator
	}
	if assetA == "" || assetB == "" {
		return nil, ErrPoolInvalidAsset
	}
	if assetA == assetB {
		return nil, ErrPoolDuplicatedAsset
	}

	return &Pool{
		OperatorID: operatorID,
		ReserveA:   AssetReserve{AssetID: assetA},
		ReserveB:   AssetReserve{AssetID: assetB},
	}, nil
}

// IsOperator returns whether the given account is the pool operator.
func (p *Pool) IsOperator(account string) bool {
	return p.OperatorID == account
}

// SupportsAsset returns whether the asset is one of the pool pair.
func (p *Pool) SupportsAsset(asset string) bool {
	return asset == p.ReserveA.AssetID || asset == p.ReserveB.AssetID
}

// IsSeeded returns whether both reserves have been funded.
func (p *Pool) IsSeeded() bool {
	return !p.Invariant.IsZero()
}

// SetMetadata fills names and precisions of the reserves. Only the first
// call has effect.
func (p *Pool) SetMetadata(metadataA, metadataB AssetMetadata) {
	if p.MetadataFetched {
		return
	}

	p.ReserveA.Name = metadataA.Name
	p.ReserveA.Precision = metadataA.Precision
	p.ReserveB.Name = metadataB.Name
	p.ReserveB.Precision = metadataB.Precision
	p.MetadataFetched = true
}

// AddLiquidity credits the amount to the reserve of the given asset and
// updates the invariant. Nothing changes in case of error.
func (p *Pool) AddLiquidity(asset string, amount mathutil.Uint128) error {
	reserveIn, reserveOut, err := p.reserves(asset)
	if err != nil {
		return err
	}

	newBalance, err := reserveIn.Balance.Add(amount)
	if err != nil {
		return fmt.Errorf("%w: %s reserve balance", ErrOverflow, asset)
	}
	invariant, err := newBalance.Mul(reserveOut.Balance)
	if err != nil {
		return fmt.Errorf("%w: invariant", ErrOverflow)
	}

	reserveIn.Balance = newBalance
	p.Invariant = invariant
	return nil
}

// QuoteSwap prices a deposit of amount of the given asset against the last
// committed invariant. The pool is left untouched.
func (p *Pool) QuoteSwap(
	asset string, amount mathutil.Uint128,
) (*marketmaking.Quote, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	reserveIn, reserveOut, err := p.reserves(asset)
	if err != nil {
		return nil, err
	}

	quote, err := strategy.Formula().OutGivenIn(marketmaking.FormulaOpts{
		BalanceIn:  reserveIn.Balance,
		BalanceOut: reserveOut.Balance,
		Invariant:  p.Invariant,
	}, amount)
	if err != nil {
		return nil, formulaError(err)
	}
	return quote, nil
}

// SpotPrice returns the price of 1 unit of the given asset expressed in the
// counter asset, accounting for their precisions.
func (p *Pool) SpotPrice(asset string) (decimal.Decimal, error) {
	reserveIn, reserveOut, err := p.reserves(asset)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := strategy.Formula().SpotPrice(marketmaking.FormulaOpts{
		BalanceIn:  reserveIn.Balance,
		BalanceOut: reserveOut.Balance,
		Invariant:  p.Invariant,
	})
	if err != nil {
		return decimal.Zero, formulaError(err)
	}
	return price.Shift(int32(reserveIn.Precision) - int32(reserveOut.Precision)), nil
}

// ApplySwap commits the reserve pair proposed by a dispatched swap whose
// payout has been confirmed, and updates the invariant.
// If the committed balances still match those the swap was quoted from, the
// proposal is written as is. Otherwise, liquidity was added while the payout
// was in flight and the swap is applied as a delta on top of it.
func (p *Pool) ApplySwap(swap Swap) error {
	if !swap.IsDispatched() || swap.IsAborted() {
		return ErrSwapMustBeDispatched
	}

	reserveIn, reserveOut, err := p.reserves(swap.AssetIn)
	if err != nil {
		return err
	}
	if reserveOut.AssetID != swap.AssetOut {
		return ErrSwapAssetMismatch
	}

	newBalanceIn, newBalanceOut := swap.NewBalanceIn, swap.NewBalanceOut
	if !reserveIn.Balance.Equal(swap.BalanceIn) ||
		!reserveOut.Balance.Equal(swap.BalanceOut) {
		if newBalanceIn, err = reserveIn.Balance.Add(swap.AmountIn); err != nil {
			return fmt.Errorf("%w: %s reserve balance", ErrOverflow, swap.AssetIn)
		}
		if newBalanceOut, err = reserveOut.Balance.Sub(swap.AmountOut); err != nil {
			return ErrInsufficientLiquidity
		}
	}

	invariant, err := newBalanceIn.Mul(newBalanceOut)
	if err != nil {
		return fmt.Errorf("%w: invariant", ErrOverflow)
	}

	reserveIn.Balance = newBalanceIn
	reserveOut.Balance = newBalanceOut
	p.Invariant = invariant
	return nil
}

// reserves returns the reserve of the given asset and the counter one.
func (p *Pool) reserves(asset string) (*AssetReserve, *AssetReserve, error) {
	switch asset {
	case p.ReserveA.AssetID:
		return &p.ReserveA, &p.ReserveB, nil
	case p.ReserveB.AssetID:
		return &p.ReserveB, &p.ReserveA, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedAsset, asset)
	}
}

// CounterAsset returns the other asset of the pair.
func (p *Pool) CounterAsset(asset string) (string, error) {
	_, reserveOut, err := p.reserves(asset)
	if err != nil {
		return "", err
	}
	return reserveOut.AssetID, nil
}

func formulaError(err error) error {
	switch {
	case errors.Is(err, formula.ErrBalanceTooLow):
		return fmt.Errorf("%w: pool reserves are not seeded", ErrInsufficientLiquidity)
	case errors.Is(err, formula.ErrAmountTooBig):
		return ErrInsufficientLiquidity
	case errors.Is(err, formula.ErrAmountTooLow):
		return ErrSwapAmountTooLow
	case errors.Is(err, mathutil.ErrOverflow):
		return fmt.Errorf("%w: reserve balance", ErrOverflow)
	default:
		return err
	}
}
