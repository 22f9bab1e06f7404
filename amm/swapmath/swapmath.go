// Package swapmath implements the fee and constant-product arithmetic used by
// swap execution. All helpers are pure and stateless; the engine owns
// validation order and state commits.
package swapmath

import (
	"fmt"

	"github.com/sendswap/sendswap-core-go/amm"
	"github.com/sendswap/sendswap-core-go/amm/ammath"
)

// Fee returns the fee portion of an input amount, floor(amount * num / den).
func Fee(amount, feeNumerator, feeDenominator uint64) (uint64, error) {
	return ammath.MulDiv(amount, feeNumerator, feeDenominator)
}

// AmountOut solves the constant-product formula for the output amount given a
// fee-adjusted input:
//
//	amountOut = reserveOut * amountInAfterFee / (reserveIn + amountInAfterFee)
func AmountOut(amountInAfterFee, reserveIn, reserveOut uint64) (uint64, error) {
	den, err := ammath.Add(reserveIn, amountInAfterFee)
	if err != nil {
		return 0, err
	}
	return ammath.MulDiv(reserveOut, amountInAfterFee, den)
}

// AmountIn solves the formula the other way: the input, before fees, needed to
// receive amountOut. The result errs on the high side by one unit per
// division, matching the usual router convention, so quoting then swapping the
// quoted amount never under-delivers.
func AmountIn(amountOut, reserveIn, reserveOut, feeNumerator, feeDenominator uint64) (uint64, error) {
	if amountOut >= reserveOut {
		return 0, fmt.Errorf("%w: requested amountOut %d >= reserveOut %d", amm.ErrInsufficientLiquidity, amountOut, reserveOut)
	}
	afterFee, err := ammath.MulDiv(reserveIn, amountOut, reserveOut-amountOut)
	if err != nil {
		return 0, err
	}
	afterFee, err = ammath.Add(afterFee, 1)
	if err != nil {
		return 0, err
	}
	// Gross the fee back up: amountIn * (den - num) / den >= afterFee.
	gross, err := ammath.MulDiv(afterFee, feeDenominator, feeDenominator-feeNumerator)
	if err != nil {
		return 0, err
	}
	return ammath.Add(gross, 1)
}

// CheckInvariant verifies that the post-swap reserve product is at least the
// pre-swap product, comparing full-width products. The swap formula cannot
// violate this; the check guards against a computation bug corrupting
// reserves and must stay even though it never fires.
func CheckInvariant(preA, preB, postA, postB uint64) error {
	if ammath.Product(postA, postB).Cmp(ammath.Product(preA, preB)) < 0 {
		return fmt.Errorf("%w: k dropped from %d*%d to %d*%d", amm.ErrInvariantViolation, preA, preB, postA, postB)
	}
	return nil
}
