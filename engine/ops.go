package engine

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sendswap/sendswap-core-go/amm"
	"github.com/sendswap/sendswap-core-go/amm/ammath"
	"github.com/sendswap/sendswap-core-go/amm/sharemath"
	"github.com/sendswap/sendswap-core-go/amm/slippage"
	"github.com/sendswap/sendswap-core-go/amm/swapmath"
)

// snapshotOf captures the event-facing state of a pool record.
func snapshotOf(p amm.Pool) PoolSnapshot {
	return PoolSnapshot{ReserveA: p.ReserveA, ReserveB: p.ReserveB, ShareSupply: p.ShareSupply}
}

// InitializePool registers a new pool for the (assetA, assetB) pair with the
// given fee ratio and fee recipient. The pool starts empty; the first
// add-liquidity call sets its price.
func (e *Engine) InitializePool(assetA, assetB common.Address, feeNumerator, feeDenominator uint64, feeRecipient common.Address) (id amm.PoolID, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(OpInitializePool, err, time.Since(start).Seconds()) }()

	if assetA == assetB {
		return amm.PoolID{}, fmt.Errorf("%w: pool assets must differ", amm.ErrAssetMismatch)
	}
	if err = amm.ValidateFee(feeNumerator, feeDenominator); err != nil {
		return amm.PoolID{}, err
	}

	id = amm.DerivePoolID(assetA, assetB)

	pool := amm.Pool{
		ID:             id,
		AssetA:         assetA,
		AssetB:         assetB,
		FeeNumerator:   feeNumerator,
		FeeDenominator: feeDenominator,
		FeeRecipient:   feeRecipient,
		VaultA:         amm.DeriveVaultAccount(id, assetA),
		VaultB:         amm.DeriveVaultAccount(id, assetB),
	}

	e.mu.Lock()
	if _, exists := e.pools[id]; exists {
		e.mu.Unlock()
		return amm.PoolID{}, fmt.Errorf("%w: %s", amm.ErrPoolAlreadyExists, id.Hex())
	}
	if err = e.ledger.RegisterPoolAccounts(id, pool.VaultA, pool.VaultB); err != nil {
		e.mu.Unlock()
		return amm.PoolID{}, fmt.Errorf("registering pool accounts: %w", err)
	}
	e.pools[id] = &poolEntry{pool: pool}
	e.publish(pool)
	e.mu.Unlock()

	e.logger.Info("pool initialized",
		"pool", id.Hex(),
		"asset_a", assetA.Hex(),
		"asset_b", assetB.Hex(),
		"fee", fmt.Sprintf("%d/%d", feeNumerator, feeDenominator),
	)
	e.emit(Event{
		Kind:   OpInitializePool,
		Pool:   id,
		Caller: feeRecipient,
		Pre:    PoolSnapshot{},
		Post:   snapshotOf(pool),
	})
	return id, nil
}

// AddLiquidity deposits amountA and amountB into the pool and mints shares to
// the caller. The first deposit into an empty pool mints the fixed seed
// quantity regardless of the amounts; subsequent deposits mint by the more
// constraining side's proportion while both full amounts enter the reserves.
func (e *Engine) AddLiquidity(caller common.Address, id amm.PoolID, amountA, amountB, minSharesOut uint64) (shares uint64, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(OpAddLiquidity, err, time.Since(start).Seconds()) }()

	entry, err := e.entry(id)
	if err != nil {
		return 0, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	pool := entry.pool

	if amountA == 0 || amountB == 0 {
		return 0, fmt.Errorf("%w: deposit amounts must be nonzero", amm.ErrInvalidAmount)
	}

	var newReserveA, newReserveB uint64
	if !pool.Funded() {
		// First deposit bootstraps the price at the caller's chosen ratio.
		shares = sharemath.SeedShares
		newReserveA = amountA
		newReserveB = amountB
	} else {
		shares, err = sharemath.SharesForDeposit(amountA, amountB, pool.ReserveA, pool.ReserveB, pool.ShareSupply)
		if err != nil {
			return 0, err
		}
		newReserveA, err = ammath.Add(pool.ReserveA, amountA)
		if err != nil {
			return 0, err
		}
		newReserveB, err = ammath.Add(pool.ReserveB, amountB)
		if err != nil {
			return 0, err
		}
	}
	if err = slippage.CheckMin(shares, minSharesOut); err != nil {
		return 0, err
	}
	newSupply, err := ammath.Add(pool.ShareSupply, shares)
	if err != nil {
		return 0, err
	}

	// Validation complete; move balances, compensating on partial failure.
	legs := []transferLeg{
		{from: caller, to: pool.VaultA, asset: pool.AssetA, amount: amountA},
		{from: caller, to: pool.VaultB, asset: pool.AssetB, amount: amountB},
	}
	if err = e.applyTransfers(legs); err != nil {
		return 0, err
	}
	if err = e.ledger.MintShares(id, caller, shares); err != nil {
		e.reverseTransfers(legs)
		return 0, err
	}

	pre := snapshotOf(pool)
	pool.ReserveA = newReserveA
	pool.ReserveB = newReserveB
	pool.ShareSupply = newSupply
	entry.pool = pool
	e.publish(pool)

	e.logger.Info("liquidity added",
		"pool", id.Hex(),
		"caller", caller.Hex(),
		"amount_a", amountA,
		"amount_b", amountB,
		"shares", shares,
	)
	e.emit(Event{
		Kind:    OpAddLiquidity,
		Pool:    id,
		Caller:  caller,
		Pre:     pre,
		Post:    snapshotOf(pool),
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	})
	return shares, nil
}

// Swap trades amountIn of assetIn for the pool's other asset at the price the
// constant-product formula yields after removing the fee from the input. The
// fee is routed to the pool's fee recipient and never enters the reserves.
func (e *Engine) Swap(caller common.Address, id amm.PoolID, assetIn common.Address, amountIn, minAmountOut uint64) (amountOut uint64, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(OpSwap, err, time.Since(start).Seconds()) }()

	entry, err := e.entry(id)
	if err != nil {
		return 0, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	pool := entry.pool

	if amountIn == 0 {
		return 0, fmt.Errorf("%w: amountIn is zero", amm.ErrInvalidAmount)
	}
	if !pool.Funded() {
		return 0, fmt.Errorf("%w: pool %s is empty", amm.ErrInsufficientLiquidity, id.Hex())
	}
	reserveIn, reserveOut, assetOut, vaultIn, vaultOut, err := pool.ReservesFor(assetIn)
	if err != nil {
		return 0, err
	}

	fee, err := swapmath.Fee(amountIn, pool.FeeNumerator, pool.FeeDenominator)
	if err != nil {
		return 0, err
	}
	amountInAfterFee := amountIn - fee
	amountOut, err = swapmath.AmountOut(amountInAfterFee, reserveIn, reserveOut)
	if err != nil {
		return 0, err
	}
	if err = slippage.CheckMin(amountOut, minAmountOut); err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, fmt.Errorf("%w: input of %d rounds to no output", amm.ErrInsufficientLiquidity, amountIn)
	}
	if amountOut >= reserveOut {
		return 0, fmt.Errorf("%w: output %d would drain reserve %d", amm.ErrInsufficientLiquidity, amountOut, reserveOut)
	}

	newReserveIn, err := ammath.Add(reserveIn, amountInAfterFee)
	if err != nil {
		return 0, err
	}
	newReserveOut := reserveOut - amountOut

	newReserveA, newReserveB := newReserveIn, newReserveOut
	if assetIn == pool.AssetB {
		newReserveA, newReserveB = newReserveOut, newReserveIn
	}
	if err = swapmath.CheckInvariant(pool.ReserveA, pool.ReserveB, newReserveA, newReserveB); err != nil {
		return 0, err
	}

	// Validation complete. The caller is debited the full amountIn: the
	// fee-adjusted part enters the vault, the fee goes to the recipient.
	legs := []transferLeg{
		{from: caller, to: vaultIn, asset: assetIn, amount: amountInAfterFee},
		{from: caller, to: pool.FeeRecipient, asset: assetIn, amount: fee},
		{from: vaultOut, to: caller, asset: assetOut, amount: amountOut},
	}
	if err = e.applyTransfers(legs); err != nil {
		return 0, err
	}

	pre := snapshotOf(pool)
	pool.ReserveA = newReserveA
	pool.ReserveB = newReserveB
	entry.pool = pool
	e.publish(pool)
	e.metrics.feesCharged.WithLabelValues(id.Hex()).Add(float64(fee))

	e.logger.Info("swap executed",
		"pool", id.Hex(),
		"caller", caller.Hex(),
		"asset_in", assetIn.Hex(),
		"amount_in", amountIn,
		"amount_out", amountOut,
		"fee", fee,
	)
	e.emit(Event{
		Kind:      OpSwap,
		Pool:      id,
		Caller:    caller,
		Pre:       pre,
		Post:      snapshotOf(pool),
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Fee:       fee,
	})
	return amountOut, nil
}

// RemoveLiquidity burns sharesIn of the caller's claim tokens and releases
// the proportional reserve amounts. Burning the entire supply returns the
// pool to its empty state; the record survives and can be refilled.
func (e *Engine) RemoveLiquidity(caller common.Address, id amm.PoolID, sharesIn, minAmountAOut, minAmountBOut uint64) (amountA, amountB uint64, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(OpRemoveLiquidity, err, time.Since(start).Seconds()) }()

	entry, err := e.entry(id)
	if err != nil {
		return 0, 0, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	pool := entry.pool

	if sharesIn == 0 {
		return 0, 0, fmt.Errorf("%w: sharesIn is zero", amm.ErrInvalidAmount)
	}
	if held := e.ledger.ShareBalance(id, caller); sharesIn > held {
		return 0, 0, fmt.Errorf("%w: caller holds %d shares, requested %d", amm.ErrInsufficientShares, held, sharesIn)
	}

	amountA, amountB, err = sharemath.WithdrawalAmounts(sharesIn, pool.ReserveA, pool.ReserveB, pool.ShareSupply)
	if err != nil {
		return 0, 0, err
	}
	if err = slippage.CheckMin(amountA, minAmountAOut); err != nil {
		return 0, 0, err
	}
	if err = slippage.CheckMin(amountB, minAmountBOut); err != nil {
		return 0, 0, err
	}

	// Validation complete; release reserves, then burn.
	legs := []transferLeg{
		{from: pool.VaultA, to: caller, asset: pool.AssetA, amount: amountA},
		{from: pool.VaultB, to: caller, asset: pool.AssetB, amount: amountB},
	}
	if err = e.applyTransfers(legs); err != nil {
		return 0, 0, err
	}
	if err = e.ledger.BurnShares(id, caller, sharesIn); err != nil {
		e.reverseTransfers(legs)
		return 0, 0, err
	}

	pre := snapshotOf(pool)
	pool.ReserveA -= amountA
	pool.ReserveB -= amountB
	pool.ShareSupply -= sharesIn
	entry.pool = pool
	e.publish(pool)

	e.logger.Info("liquidity removed",
		"pool", id.Hex(),
		"caller", caller.Hex(),
		"shares", sharesIn,
		"amount_a", amountA,
		"amount_b", amountB,
	)
	e.emit(Event{
		Kind:    OpRemoveLiquidity,
		Pool:    id,
		Caller:  caller,
		Pre:     pre,
		Post:    snapshotOf(pool),
		AmountA: amountA,
		AmountB: amountB,
		Shares:  sharesIn,
	})
	return amountA, amountB, nil
}
