package amm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assetUSD = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	assetETH = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestDerivePoolID(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, DerivePoolID(assetUSD, assetETH), DerivePoolID(assetUSD, assetETH))
	})

	t.Run("Order Matters", func(t *testing.T) {
		assert.NotEqual(t, DerivePoolID(assetUSD, assetETH), DerivePoolID(assetETH, assetUSD))
	})

	t.Run("Distinct Pairs Distinct IDs", func(t *testing.T) {
		other := common.HexToAddress("0x00000000000000000000000000000000000000cc")
		assert.NotEqual(t, DerivePoolID(assetUSD, assetETH), DerivePoolID(assetUSD, other))
	})
}

func TestDeriveVaultAccount(t *testing.T) {
	id := DerivePoolID(assetUSD, assetETH)

	vaultA := DeriveVaultAccount(id, assetUSD)
	vaultB := DeriveVaultAccount(id, assetETH)
	assert.NotEqual(t, vaultA, vaultB, "each asset gets its own vault")
	assert.Equal(t, vaultA, DeriveVaultAccount(id, assetUSD), "derivation is deterministic")

	// Vaults of the reversed pool are in a different namespace entirely.
	reversed := DerivePoolID(assetETH, assetUSD)
	assert.NotEqual(t, vaultA, DeriveVaultAccount(reversed, assetUSD))
}

func TestValidateFee(t *testing.T) {
	testCases := []struct {
		name        string
		num, den    uint64
		expectError bool
	}{
		{name: "Thirty Bps", num: 3, den: 1000},
		{name: "Zero Fee", num: 0, den: 1},
		{name: "Just Under Full", num: 999, den: 1000},
		{name: "Zero Denominator", num: 0, den: 0, expectError: true},
		{name: "Full Fee", num: 1000, den: 1000, expectError: true},
		{name: "Above Full", num: 1001, den: 1000, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFee(tc.num, tc.den)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidFeeParameters)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReservesFor(t *testing.T) {
	id := DerivePoolID(assetUSD, assetETH)
	pool := Pool{
		ID:       id,
		AssetA:   assetUSD,
		AssetB:   assetETH,
		ReserveA: 100,
		ReserveB: 200,
		VaultA:   DeriveVaultAccount(id, assetUSD),
		VaultB:   DeriveVaultAccount(id, assetETH),
	}

	t.Run("A In", func(t *testing.T) {
		reserveIn, reserveOut, assetOut, vaultIn, vaultOut, err := pool.ReservesFor(assetUSD)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), reserveIn)
		assert.Equal(t, uint64(200), reserveOut)
		assert.Equal(t, assetETH, assetOut)
		assert.Equal(t, pool.VaultA, vaultIn)
		assert.Equal(t, pool.VaultB, vaultOut)
	})

	t.Run("B In", func(t *testing.T) {
		reserveIn, reserveOut, assetOut, vaultIn, vaultOut, err := pool.ReservesFor(assetETH)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), reserveIn)
		assert.Equal(t, uint64(100), reserveOut)
		assert.Equal(t, assetUSD, assetOut)
		assert.Equal(t, pool.VaultB, vaultIn)
		assert.Equal(t, pool.VaultA, vaultOut)
	})

	t.Run("Foreign Asset", func(t *testing.T) {
		_, _, _, _, _, err := pool.ReservesFor(common.HexToAddress("0xdead"))
		assert.ErrorIs(t, err, ErrAssetMismatch)
	})
}
