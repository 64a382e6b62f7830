// Package formula defines the formulas that implement the MakingFormula
// interface.
package formula

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-amm/pkg/marketmaking"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

const ConstantProductType = 1

var (
	// ErrBalanceTooLow is returned when the reserves haven't been seeded yet.
	ErrBalanceTooLow = errors.New("reserve balance amount is too low")
	// ErrAmountTooLow is returned when the quoted payout is zero.
	ErrAmountTooLow = errors.New("provided amount is too low")
	// ErrAmountTooBig is returned when the quoted payout exceeds the reserve
	// of the outbound asset.
	ErrAmountTooBig = errors.New("provided amount is too big")
)

// ConstantProduct is the x*y=k curve. Given the committed invariant k and an
// inbound amount x for a reserve X, the reserve Y moves to floor(k / (X+x))
// and the difference leaves the pool.
type ConstantProduct struct{}

// SpotPrice returns how many units of the outbound asset one unit of the
// inbound one is worth, before price impact.
func (ConstantProduct) SpotPrice(
	opts marketmaking.FormulaOpts,
) (decimal.Decimal, error) {
	if opts.BalanceIn.IsZero() || opts.BalanceOut.IsZero() {
		return decimal.Zero, ErrBalanceTooLow
	}

	in := decimal.NewFromBigInt(opts.BalanceIn.BigInt(), 0)
	out := decimal.NewFromBigInt(opts.BalanceOut.BigInt(), 0)
	return out.Div(in), nil
}

// OutGivenIn returns the amount of the outbound asset that is exchanged for
// the given amountIn, together with the resulting reserve pair.
func (ConstantProduct) OutGivenIn(
	opts marketmaking.FormulaOpts, amountIn mathutil.Uint128,
) (*marketmaking.Quote, error) {
	if opts.Invariant.IsZero() {
		return nil, ErrBalanceTooLow
	}

	newBalanceIn, err := opts.BalanceIn.Add(amountIn)
	if err != nil {
		return nil, err
	}
	// Invariant is non-zero, so is the balance in.
	newBalanceOut, err := opts.Invariant.Div(newBalanceIn)
	if err != nil {
		return nil, err
	}

	amountOut, err := opts.BalanceOut.Sub(newBalanceOut)
	if err != nil {
		return nil, ErrAmountTooBig
	}
	if amountOut.IsZero() {
		return nil, ErrAmountTooLow
	}

	return &marketmaking.Quote{
		AmountOut:     amountOut,
		NewBalanceIn:  newBalanceIn,
		NewBalanceOut: newBalanceOut,
	}, nil
}

func (ConstantProduct) FormulaType() int {
	return ConstantProductType
}
