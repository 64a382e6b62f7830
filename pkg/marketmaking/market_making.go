package marketmaking

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

// FormulaOpts defines the reserves state a formula quotes against.
type FormulaOpts struct {
	BalanceIn  mathutil.Uint128
	BalanceOut mathutil.Uint128
	// Invariant is the last committed curve constant. Formulas must quote
	// against it rather than deriving it again from the balances.
	Invariant mathutil.Uint128
}

// Quote is the result of pricing an inbound amount: how much leaves the pool
// and the reserve pair the pool moves to once the payout is confirmed.
type Quote struct {
	AmountOut     mathutil.Uint128
	NewBalanceIn  mathutil.Uint128
	NewBalanceOut mathutil.Uint128
}

// MakingFormula defines the interface for implementing the formula to derive
// the spot price and the swap quotes.
type MakingFormula interface {
	SpotPrice(opts FormulaOpts) (decimal.Decimal, error)
	OutGivenIn(opts FormulaOpts, amountIn mathutil.Uint128) (*Quote, error)
	FormulaType() int
}

// MakingStrategy defines the automated market making strategy, using a
// formula to be applied to calculate the price of next trade.
type MakingStrategy struct {
	name    string
	formula MakingFormula
}

// NewStrategyFromFormula returns the strategy struct with the name
func NewStrategyFromFormula(name string, formula MakingFormula) *MakingStrategy {
	return &MakingStrategy{name, formula}
}

// Name returns the short name of the MM strategy
func (ms *MakingStrategy) Name() string {
	return ms.name
}

// Formula returns the mathematical formula of the MM strategy
func (ms *MakingStrategy) Formula() MakingFormula {
	return ms.formula
}
