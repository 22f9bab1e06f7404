// Package amm defines the shared domain types of the constant-product pool
// engine: asset and account identifiers, the Pool record, and the
// deterministic derivation of pool and vault identifiers.
package amm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PoolID uniquely identifies one pool. It is derived from the pool's asset
// pair, so a pool is always locatable without a separate registry lookup.
type PoolID common.Hash

// Hex returns the pool ID as a 0x-prefixed hex string.
func (id PoolID) Hex() string { return common.Hash(id).Hex() }

// Domain tags keep pool IDs and vault account IDs in disjoint namespaces.
const (
	poolIDTag = "sendswap/pool/v1"
	vaultTag  = "sendswap/vault/v1"
)

// DerivePoolID returns the content-derived identifier for the (assetA, assetB)
// pair. Order matters: the pool for (A, B) is distinct in storage from (B, A).
// No key material is involved; this is purely an addressing scheme.
func DerivePoolID(assetA, assetB common.Address) PoolID {
	return PoolID(crypto.Keccak256Hash([]byte(poolIDTag), assetA.Bytes(), assetB.Bytes()))
}

// DeriveVaultAccount returns the holding account for one of a pool's assets.
// The account is owned by the pool itself: no external keyholder can move its
// balance, only the engine's validated operations.
func DeriveVaultAccount(id PoolID, asset common.Address) common.Address {
	h := crypto.Keccak256Hash([]byte(vaultTag), id[:], asset.Bytes())
	return common.BytesToAddress(h[12:])
}

// Pool is the authoritative record of one constant-product pool.
//
// Lifecycle: created once via pool initialization, after which reserves and
// supply mutate only through add-liquidity, swap, and remove-liquidity. The
// record itself is never destroyed; burning every share returns it to the
// empty state, from which it can be refilled.
type Pool struct {
	ID     PoolID         `json:"id"`
	AssetA common.Address `json:"assetA"`
	AssetB common.Address `json:"assetB"`

	// Current holdings of each asset. Both are zero only before the first
	// deposit; once either is nonzero, both are.
	ReserveA uint64 `json:"reserveA"`
	ReserveB uint64 `json:"reserveB"`

	// Outstanding claim tokens. Zero exactly when reserves are zero.
	ShareSupply uint64 `json:"shareSupply"`

	// Swap fee ratio applied to input amounts. FeeDenominator > 0 and
	// FeeNumerator < FeeDenominator always hold for a registered pool.
	FeeNumerator   uint64 `json:"feeNumerator"`
	FeeDenominator uint64 `json:"feeDenominator"`

	// Account receiving collected swap fees, separate from pool reserves.
	FeeRecipient common.Address `json:"feeRecipient"`

	// Pool-owned holding accounts for each asset, derived from the pool ID.
	VaultA common.Address `json:"vaultA"`
	VaultB common.Address `json:"vaultB"`
}

// Funded reports whether the pool holds liquidity.
func (p Pool) Funded() bool { return p.ShareSupply > 0 }

// ContainsAsset reports whether the given asset is one of the pool's pair.
func (p Pool) ContainsAsset(asset common.Address) bool {
	return asset == p.AssetA || asset == p.AssetB
}

// ReservesFor resolves a swap direction. Given the input asset it returns the
// input and output reserves, the output asset, and the matching vault
// accounts.
func (p Pool) ReservesFor(assetIn common.Address) (reserveIn, reserveOut uint64, assetOut, vaultIn, vaultOut common.Address, err error) {
	switch assetIn {
	case p.AssetA:
		return p.ReserveA, p.ReserveB, p.AssetB, p.VaultA, p.VaultB, nil
	case p.AssetB:
		return p.ReserveB, p.ReserveA, p.AssetA, p.VaultB, p.VaultA, nil
	default:
		return 0, 0, common.Address{}, common.Address{}, common.Address{}, fmt.Errorf("%w: pool %s does not contain asset %s", ErrAssetMismatch, p.ID.Hex(), assetIn.Hex())
	}
}

// ValidateFee checks a fee ratio for pool initialization. A zero denominator
// and a fee of 100% or more are both rejected.
func ValidateFee(feeNumerator, feeDenominator uint64) error {
	if feeDenominator == 0 {
		return fmt.Errorf("%w: fee denominator is zero", ErrInvalidFeeParameters)
	}
	if feeNumerator >= feeDenominator {
		return fmt.Errorf("%w: fee %d/%d is not strictly below 100%%", ErrInvalidFeeParameters, feeNumerator, feeDenominator)
	}
	return nil
}
