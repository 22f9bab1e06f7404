// Package ledger defines the external ledger adapter the pool engine calls
// into. The adapter moves underlying asset balances between participant and
// pool holding accounts and mints/burns the claim tokens representing pool
// ownership. Each call either fully succeeds or fully fails; the engine
// treats it as a trusted primitive and compensates already-applied legs when
// a later leg fails.
package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sendswap/sendswap-core-go/amm"
)

var (
	// ErrInsufficientBalance is returned when a debit exceeds the account's holdings.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrGuardedAccount is returned when an unprivileged caller tries to debit a
	// pool-held account. Only the engine's privileged view may move vault balances.
	ErrGuardedAccount = errors.New("account is pool-held")
	// ErrBalanceOverflow is returned when a credit would push a balance past 64 bits.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Ledger is the engine-facing adapter contract.
type Ledger interface {
	// Transfer moves amount of asset from one account to another. A zero amount
	// is a no-op. The call is atomic: on error no balance changed.
	Transfer(from, to common.Address, asset common.Address, amount uint64) error

	// RegisterPoolAccounts marks the pool's holding accounts as pool-held, so
	// that no caller outside the engine's privileged view can debit them.
	RegisterPoolAccounts(pool amm.PoolID, vaultA, vaultB common.Address) error

	// MintShares credits claim tokens for the given pool to a holder.
	MintShares(pool amm.PoolID, to common.Address, amount uint64) error

	// BurnShares debits claim tokens for the given pool from a holder.
	BurnShares(pool amm.PoolID, from common.Address, amount uint64) error

	// ShareBalance returns the holder's claim-token balance for the pool.
	ShareBalance(pool amm.PoolID, holder common.Address) uint64

	// Balance returns the holder's balance of the given asset.
	Balance(holder common.Address, asset common.Address) uint64
}
