package formula

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/pkg/marketmaking"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

func newOpts(balanceIn, balanceOut uint64) marketmaking.FormulaOpts {
	in, out := mathutil.NewUint128(balanceIn), mathutil.NewUint128(balanceOut)
	k, _ := in.Mul(out)
	return marketmaking.FormulaOpts{BalanceIn: in, BalanceOut: out, Invariant: k}
}

func TestConstantProduct_SpotPrice(t *testing.T) {
	tests := []struct {
		name          string
		opts          marketmaking.FormulaOpts
		wantSpotPrice decimal.Decimal
	}{
		{
			"balanced",
			newOpts(20000000000, 20000000000),
			decimal.NewFromInt(1),
		},
		{
			"unbalanced",
			newOpts(2*100000000, 2*9760*100000000),
			decimal.NewFromInt(9760),
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spotPrice, err := ConstantProduct{}.SpotPrice(tt.opts)
			require.NoError(t, err)
			require.True(t, tt.wantSpotPrice.Equal(spotPrice))
		})
	}

	_, err := ConstantProduct{}.SpotPrice(newOpts(0, 10))
	require.ErrorIs(t, err, ErrBalanceTooLow)
}

func TestConstantProduct_OutGivenIn(t *testing.T) {
	tests := []struct {
		name              string
		opts              marketmaking.FormulaOpts
		amountIn          uint64
		wantAmountOut     uint64
		wantNewBalanceIn  uint64
		wantNewBalanceOut uint64
	}{
		{
			"balanced_pool",
			newOpts(20000000000, 20000000000),
			5000000000,
			4000000000,
			25000000000,
			16000000000,
		},
		{
			"result_is_floored",
			newOpts(1000, 1000),
			3,
			3,
			1003,
			997,
		},
		{
			"unbalanced_pool",
			newOpts(100000000, 650000000000),
			10000,
			64993501,
			100010000,
			649935006499,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote, err := ConstantProduct{}.OutGivenIn(
				tt.opts, mathutil.NewUint128(tt.amountIn),
			)
			require.NoError(t, err)
			require.Equal(t, mathutil.NewUint128(tt.wantAmountOut), quote.AmountOut)
			require.Equal(t, mathutil.NewUint128(tt.wantNewBalanceIn), quote.NewBalanceIn)
			require.Equal(t, mathutil.NewUint128(tt.wantNewBalanceOut), quote.NewBalanceOut)
		})
	}
}

func TestFailingConstantProduct_OutGivenIn(t *testing.T) {
	maxValue := mathutil.MustParseUint128("340282366920938463463374607431768211455")
	staleOpts := newOpts(1000, 1000)
	staleOpts.Invariant = mathutil.NewUint128(4000000)

	tests := []struct {
		name        string
		opts        marketmaking.FormulaOpts
		amountIn    mathutil.Uint128
		expectedErr error
	}{
		{
			"not_seeded",
			newOpts(0, 20000000000),
			mathutil.NewUint128(10),
			ErrBalanceTooLow,
		},
		{
			"zero_amount_has_no_payout",
			newOpts(20000000000, 10),
			mathutil.Uint128{},
			ErrAmountTooLow,
		},
		{
			"payout_exceeds_reserve",
			staleOpts,
			mathutil.NewUint128(1),
			ErrAmountTooBig,
		},
		{
			"amount_overflows",
			newOpts(20000000000, 20000000000),
			maxValue,
			mathutil.ErrOverflow,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote, err := ConstantProduct{}.OutGivenIn(tt.opts, tt.amountIn)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, quote)
		})
	}
}
