// Package ammath provides overflow-checked arithmetic for 64-bit reserve
// quantities. Every multiply runs through a wide intermediate before
// truncating back to 64 bits, and every divide checks its divisor; nothing
// here wraps or saturates, because wraparound in reserve accounting is
// directly exploitable.
package ammath

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/sendswap/sendswap-core-go/amm"
)

// Add returns a + b, or amm.ErrArithmeticOverflow if the sum does not fit in 64 bits.
func Add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%w: %d + %d exceeds 64 bits", amm.ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a - b, or amm.ErrArithmeticOverflow if b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d underflows", amm.ErrArithmeticOverflow, a, b)
	}
	return a - b, nil
}

// Mul returns a * b, or amm.ErrArithmeticOverflow if the product does not fit
// in 64 bits. The product is formed in 256-bit space and checked, never wrapped.
func Mul(a, b uint64) (uint64, error) {
	p := Product(a, b)
	if !p.IsUint64() {
		return 0, fmt.Errorf("%w: %d * %d exceeds 64 bits", amm.ErrArithmeticOverflow, a, b)
	}
	return p.Uint64(), nil
}

// MulDiv returns (a * b) / den with the product held in a wide intermediate,
// so a*b may exceed 64 bits as long as the quotient fits. A zero divisor and
// a quotient above 64 bits both fail with amm.ErrArithmeticOverflow.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: division by zero", amm.ErrArithmeticOverflow)
	}
	var z, d uint256.Int
	z.SetUint64(a)
	d.SetUint64(b)
	z.Mul(&z, &d)
	d.SetUint64(den)
	z.Div(&z, &d)
	if !z.IsUint64() {
		return 0, fmt.Errorf("%w: %d * %d / %d exceeds 64 bits", amm.ErrArithmeticOverflow, a, b, den)
	}
	return z.Uint64(), nil
}

// Product returns a * b as a 256-bit integer. Used where a full-width product
// must be compared without truncation, e.g. the constant-product invariant.
func Product(a, b uint64) *uint256.Int {
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	return x.Mul(&x, &y)
}
