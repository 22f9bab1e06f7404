package sharemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendswap/sendswap-core-go/amm"
)

func TestSeedSharesConstant(t *testing.T) {
	// One whole share at six decimals. Changing this silently repriced every
	// pool's share scale, so pin it.
	assert.Equal(t, uint64(1_000_000), SeedShares)
}

func TestSharesForDeposit(t *testing.T) {
	testCases := []struct {
		name               string
		amountA, amountB   uint64
		reserveA, reserveB uint64
		supply             uint64
		expected           uint64
		expectError        bool
	}{
		{
			name:    "Proportional Deposit",
			amountA: 100, amountB: 100,
			reserveA: 1_000, reserveB: 1_000,
			supply:   SeedShares,
			expected: 100_000, // 10% of supply
		},
		{
			name:    "Constrained By Side A",
			amountA: 50, amountB: 500,
			reserveA: 1_000, reserveB: 1_000,
			supply:   SeedShares,
			expected: 50_000, // the lopsided B excess mints nothing extra
		},
		{
			name:    "Constrained By Side B",
			amountA: 500, amountB: 50,
			reserveA: 1_000, reserveB: 1_000,
			supply:   SeedShares,
			expected: 50_000,
		},
		{
			name:    "Rounds Down",
			amountA: 1, amountB: 1,
			reserveA: 3, reserveB: 3,
			supply:   10,
			expected: 3, // 10/3 floored
		},
		{
			name:    "Dust Mints Nothing",
			amountA: 1, amountB: 1,
			reserveA: 10_000_000, reserveB: 10_000_000,
			supply:   SeedShares,
			expected: 0,
		},
		{
			name:    "Overflow In Numerator Still Fits",
			amountA: math.MaxUint64 / 2, amountB: math.MaxUint64 / 2,
			reserveA: math.MaxUint64 / 2, reserveB: math.MaxUint64 / 2,
			supply:   SeedShares,
			expected: SeedShares,
		},
		{
			name:    "Quotient Overflows",
			amountA: math.MaxUint64, amountB: math.MaxUint64,
			reserveA: 1, reserveB: 1,
			supply:      2,
			expectError: true,
		},
		{
			name:    "Zero Reserve Divisor",
			amountA: 1, amountB: 1,
			reserveA: 0, reserveB: 1,
			supply:      SeedShares,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SharesForDeposit(tc.amountA, tc.amountB, tc.reserveA, tc.reserveB, tc.supply)
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

func TestWithdrawalAmounts(t *testing.T) {
	testCases := []struct {
		name               string
		sharesIn           uint64
		reserveA, reserveB uint64
		supply             uint64
		expectedA          uint64
		expectedB          uint64
	}{
		{
			name:     "Half The Supply",
			sharesIn: SeedShares / 2,
			reserveA: 1_000_000, reserveB: 4_000_000,
			supply:    SeedShares,
			expectedA: 500_000,
			expectedB: 2_000_000,
		},
		{
			name:     "Entire Supply Drains Exactly",
			sharesIn: SeedShares,
			reserveA: 1_234_567, reserveB: 7_654_321,
			supply:    SeedShares,
			expectedA: 1_234_567,
			expectedB: 7_654_321,
		},
		{
			name:     "Rounds Down",
			sharesIn: 1,
			reserveA: 10, reserveB: 10,
			supply:    3,
			expectedA: 3,
			expectedB: 3,
		},
		{
			name:     "Tiny Share Of Large Pool",
			sharesIn: 1,
			reserveA: 5, reserveB: 5,
			supply:    SeedShares,
			expectedA: 0,
			expectedB: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotA, gotB, err := WithdrawalAmounts(tc.sharesIn, tc.reserveA, tc.reserveB, tc.supply)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedA, gotA)
			assert.Equal(t, tc.expectedB, gotB)
		})
	}
}

func TestWithdrawalNeverExceedsProportionalClaim(t *testing.T) {
	// Rounding down means sum over any share split never exceeds the reserve.
	const supply = SeedShares
	const reserveA, reserveB = 999_999, 1_000_001

	var totalA, totalB uint64
	splits := []uint64{1, 333_333, 333_333, 333_333}
	remaining := uint64(supply)
	remainingA, remainingB := uint64(reserveA), uint64(reserveB)
	for _, s := range splits {
		a, b, err := WithdrawalAmounts(s, remainingA, remainingB, remaining)
		require.NoError(t, err)
		totalA += a
		totalB += b
		remainingA -= a
		remainingB -= b
		remaining -= s
	}
	assert.LessOrEqual(t, totalA, uint64(reserveA))
	assert.LessOrEqual(t, totalB, uint64(reserveB))
}
