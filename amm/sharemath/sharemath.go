// Package sharemath encapsulates the mint and burn arithmetic for pool claim
// tokens. It lives apart from the engine because its seed constant and
// rounding policy are a classic source of economic exploits (donation attacks
// against a victim's first deposit among them) and deserve isolated tests.
package sharemath

import (
	"github.com/sendswap/sendswap-core-go/amm/ammath"
)

// SeedShares is the fixed quantity of shares minted to the first liquidity
// depositor, independent of the amounts deposited. The first depositor sets
// the pool price through the ratio of their deposit; the constant only
// anchors the share scale (one whole share at six decimals).
const SeedShares uint64 = 1_000_000

// SharesForDeposit returns the shares minted for a deposit into a funded
// pool: the more constraining side's proportion of the existing supply,
//
//	min(amountA * supply / reserveA, amountB * supply / reserveB)
//
// Both divisions round down, so a deposit can never mint more than its exact
// proportional claim. The full deposited amounts still enter the reserves;
// a deposit whose ratio diverges from the pool's donates the excess to
// existing shareholders rather than being rejected or truncated.
func SharesForDeposit(amountA, amountB, reserveA, reserveB, supply uint64) (uint64, error) {
	byA, err := ammath.MulDiv(amountA, supply, reserveA)
	if err != nil {
		return 0, err
	}
	byB, err := ammath.MulDiv(amountB, supply, reserveB)
	if err != nil {
		return 0, err
	}
	if byB < byA {
		return byB, nil
	}
	return byA, nil
}

// WithdrawalAmounts returns the reserve amounts released by burning sharesIn
// out of supply:
//
//	amountA = reserveA * sharesIn / supply
//	amountB = reserveB * sharesIn / supply
//
// Rounding is down on both legs, so a withdrawal can never exceed its
// proportional claim; burning the entire supply releases the reserves
// exactly.
func WithdrawalAmounts(sharesIn, reserveA, reserveB, supply uint64) (amountA, amountB uint64, err error) {
	amountA, err = ammath.MulDiv(reserveA, sharesIn, supply)
	if err != nil {
		return 0, 0, err
	}
	amountB, err = ammath.MulDiv(reserveB, sharesIn, supply)
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}
