package swapmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendswap/sendswap-core-go/amm"
)

func TestFee(t *testing.T) {
	testCases := []struct {
		name     string
		amount   uint64
		num, den uint64
		expected uint64
	}{
		{name: "Thirty Bps Exact", amount: 100_000_000, num: 3, den: 1000, expected: 300_000},
		{name: "Rounds Down", amount: 999, num: 3, den: 1000, expected: 2},
		{name: "Zero Fee", amount: 1_000_000, num: 0, den: 1000, expected: 0},
		{name: "Tiny Amount Rounds To Zero", amount: 1, num: 3, den: 1000, expected: 0},
		{name: "One Percent", amount: 12_345, num: 1, den: 100, expected: 123},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fee(tc.amount, tc.num, tc.den)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFeeZeroDenominator(t *testing.T) {
	_, err := Fee(100, 3, 0)
	assert.ErrorIs(t, err, amm.ErrArithmeticOverflow)
}

func TestAmountOut(t *testing.T) {
	testCases := []struct {
		name                 string
		amountInAfterFee     uint64
		reserveIn, reserveOut uint64
		expected             uint64
		expectError          bool
	}{
		{
			// 1e9 * 1e6 / (1e9 + 1e6) = 999000.999... -> 999000
			name:             "Balanced Pool Small Trade",
			amountInAfterFee: 1_000_000,
			reserveIn:        1_000_000_000,
			reserveOut:       1_000_000_000,
			expected:         999_000,
		},
		{
			// Input equal to the reserve halves it: out = R*R / 2R = R/2.
			name:             "Trade Equal To Reserve",
			amountInAfterFee: 1_000_000_000,
			reserveIn:        1_000_000_000,
			reserveOut:       1_000_000_000,
			expected:         500_000_000,
		},
		{
			name:             "Asymmetric Reserves",
			amountInAfterFee: 50_000,
			reserveIn:        100_000_000,
			reserveOut:       400_000_000,
			expected:         199_900, // 4e8*5e4/(1e8+5e4)
		},
		{
			name:             "Dust Rounds To Zero",
			amountInAfterFee: 1,
			reserveIn:        1_000_000_000,
			reserveOut:       1_000,
			expected:         0,
		},
		{
			name:             "Reserve Overflow",
			amountInAfterFee: math.MaxUint64,
			reserveIn:        math.MaxUint64,
			reserveOut:       1,
			expectError:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AmountOut(tc.amountInAfterFee, tc.reserveIn, tc.reserveOut)
			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, amm.ErrArithmeticOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestAmountOutNeverReachesReserve(t *testing.T) {
	// The formula's output is strictly below reserveOut for any finite input:
	// out = Ro*x/(Ri+x) < Ro.
	reserves := []uint64{1, 1_000, 1_000_000_000, math.MaxUint64 / 4}
	for _, reserveOut := range reserves {
		out, err := AmountOut(math.MaxUint64/4, math.MaxUint64/4, reserveOut)
		require.NoError(t, err)
		assert.Less(t, out, reserveOut)
	}
}

func TestAmountIn(t *testing.T) {
	const (
		reserveIn  = 1_000_000_000
		reserveOut = 1_000_000_000
		feeNum     = 3
		feeDen     = 1000
	)

	t.Run("Quoted Input Covers The Output", func(t *testing.T) {
		wantOut := uint64(999_000)
		amountIn, err := AmountIn(wantOut, reserveIn, reserveOut, feeNum, feeDen)
		require.NoError(t, err)

		fee, err := Fee(amountIn, feeNum, feeDen)
		require.NoError(t, err)
		gotOut, err := AmountOut(amountIn-fee, reserveIn, reserveOut)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, gotOut, wantOut)
	})

	t.Run("Requesting The Whole Reserve Fails", func(t *testing.T) {
		_, err := AmountIn(reserveOut, reserveIn, reserveOut, feeNum, feeDen)
		assert.ErrorIs(t, err, amm.ErrInsufficientLiquidity)
	})

	t.Run("Requesting More Than The Reserve Fails", func(t *testing.T) {
		_, err := AmountIn(reserveOut+1, reserveIn, reserveOut, feeNum, feeDen)
		assert.ErrorIs(t, err, amm.ErrInsufficientLiquidity)
	})
}

func TestCheckInvariant(t *testing.T) {
	testCases := []struct {
		name                     string
		preA, preB, postA, postB uint64
		expectError              bool
	}{
		{name: "Strictly Improves", preA: 100, preB: 100, postA: 110, postB: 95},
		{name: "Exactly Preserved", preA: 100, preB: 100, postA: 200, postB: 50},
		{name: "Decreases", preA: 100, preB: 100, postA: 99, postB: 100, expectError: true},
		{
			// Products beyond 64 bits must be compared at full width.
			name:  "Wide Products",
			preA:  math.MaxUint64, preB: math.MaxUint64,
			postA: math.MaxUint64, postB: math.MaxUint64,
		},
		{
			name:  "Wide Products Decrease",
			preA:  math.MaxUint64, preB: math.MaxUint64,
			postA: math.MaxUint64 - 1, postB: math.MaxUint64,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckInvariant(tc.preA, tc.preB, tc.postA, tc.postB)
			if tc.expectError {
				assert.ErrorIs(t, err, amm.ErrInvariantViolation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
