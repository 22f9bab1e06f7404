package ledger

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sendswap/sendswap-core-go/amm"
)

// InMemory is a map-backed ledger for tests and the demo console. The pool
// engine is handed the result of Privileged() exactly once; every other
// holder of an *InMemory sees the unprivileged surface, which cannot debit
// pool-held accounts, mint, or burn. That mirrors the production model where
// the pool itself is the sole owner of its vault accounts.
type InMemory struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]uint64 // holder -> asset -> amount
	shares   map[amm.PoolID]map[common.Address]uint64     // pool -> holder -> shares
	guarded  map[common.Address]struct{}
}

// NewInMemory returns an empty in-memory ledger.
func NewInMemory() *InMemory {
	return &InMemory{
		balances: make(map[common.Address]map[common.Address]uint64),
		shares:   make(map[amm.PoolID]map[common.Address]uint64),
		guarded:  make(map[common.Address]struct{}),
	}
}

// Privileged returns the view intended for the pool engine: it may debit
// pool-held accounts and mint/burn claim tokens.
func (l *InMemory) Privileged() Ledger {
	return &privilegedView{l}
}

// Fund credits a participant balance out of thin air. Test and demo faucet;
// a real adapter has no equivalent.
func (l *InMemory) Fund(holder common.Address, asset common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credit(holder, asset, amount)
}

// Transfer implements the unprivileged surface: debits from pool-held
// accounts are refused.
func (l *InMemory) Transfer(from, to common.Address, asset common.Address, amount uint64) error {
	return l.transfer(from, to, asset, amount, false)
}

// RegisterPoolAccounts is privileged; the unprivileged surface rejects it.
func (l *InMemory) RegisterPoolAccounts(pool amm.PoolID, vaultA, vaultB common.Address) error {
	return fmt.Errorf("%w: registering pool accounts requires the privileged view", ErrGuardedAccount)
}

// MintShares is privileged; the unprivileged surface rejects it.
func (l *InMemory) MintShares(pool amm.PoolID, to common.Address, amount uint64) error {
	return fmt.Errorf("%w: minting shares requires the privileged view", ErrGuardedAccount)
}

// BurnShares is privileged; the unprivileged surface rejects it.
func (l *InMemory) BurnShares(pool amm.PoolID, from common.Address, amount uint64) error {
	return fmt.Errorf("%w: burning shares requires the privileged view", ErrGuardedAccount)
}

// ShareBalance returns the holder's claim-token balance for the pool.
func (l *InMemory) ShareBalance(pool amm.PoolID, holder common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shares[pool][holder]
}

// Balance returns the holder's balance of the given asset.
func (l *InMemory) Balance(holder common.Address, asset common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[holder][asset]
}

// --- internal, lock held by callers where noted ---

func (l *InMemory) transfer(from, to common.Address, asset common.Address, amount uint64, privileged bool) error {
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.guarded[from]; held && !privileged {
		return fmt.Errorf("%w: %s", ErrGuardedAccount, from.Hex())
	}
	have := l.balances[from][asset]
	if have < amount {
		return fmt.Errorf("%w: account %s holds %d of %s, needs %d", ErrInsufficientBalance, from.Hex(), have, asset.Hex(), amount)
	}
	if from == to {
		return nil
	}
	if err := l.credit(to, asset, amount); err != nil {
		return err
	}
	l.balances[from][asset] = have - amount
	return nil
}

// credit requires l.mu.
func (l *InMemory) credit(holder common.Address, asset common.Address, amount uint64) error {
	accts := l.balances[holder]
	if accts == nil {
		accts = make(map[common.Address]uint64)
		l.balances[holder] = accts
	}
	next := accts[asset] + amount
	if next < accts[asset] {
		return fmt.Errorf("%w: account %s asset %s", ErrBalanceOverflow, holder.Hex(), asset.Hex())
	}
	accts[asset] = next
	return nil
}

// privilegedView is the engine-only surface over the shared store.
type privilegedView struct {
	l *InMemory
}

func (v *privilegedView) Transfer(from, to common.Address, asset common.Address, amount uint64) error {
	return v.l.transfer(from, to, asset, amount, true)
}

func (v *privilegedView) RegisterPoolAccounts(pool amm.PoolID, vaultA, vaultB common.Address) error {
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	v.l.guarded[vaultA] = struct{}{}
	v.l.guarded[vaultB] = struct{}{}
	return nil
}

func (v *privilegedView) MintShares(pool amm.PoolID, to common.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	holders := v.l.shares[pool]
	if holders == nil {
		holders = make(map[common.Address]uint64)
		v.l.shares[pool] = holders
	}
	next := holders[to] + amount
	if next < holders[to] {
		return fmt.Errorf("%w: shares of pool %s for %s", ErrBalanceOverflow, pool.Hex(), to.Hex())
	}
	holders[to] = next
	return nil
}

func (v *privilegedView) BurnShares(pool amm.PoolID, from common.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	v.l.mu.Lock()
	defer v.l.mu.Unlock()
	have := v.l.shares[pool][from]
	if have < amount {
		return fmt.Errorf("%w: account %s holds %d shares of pool %s, needs %d", ErrInsufficientBalance, from.Hex(), have, pool.Hex(), amount)
	}
	v.l.shares[pool][from] = have - amount
	return nil
}

func (v *privilegedView) ShareBalance(pool amm.PoolID, holder common.Address) uint64 {
	return v.l.ShareBalance(pool, holder)
}

func (v *privilegedView) Balance(holder common.Address, asset common.Address) uint64 {
	return v.l.Balance(holder, asset)
}
