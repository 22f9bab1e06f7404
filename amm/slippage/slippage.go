// Package slippage checks computed results against caller-specified bounds.
package slippage

import (
	"fmt"

	"github.com/sendswap/sendswap-core-go/amm"
)

// CheckMin fails with amm.ErrSlippageExceeded when actual falls below the
// caller's minimum. Used for outputs: shares minted, amounts received.
func CheckMin(actual, minimum uint64) error {
	if actual < minimum {
		return fmt.Errorf("%w: got %d, caller minimum %d", amm.ErrSlippageExceeded, actual, minimum)
	}
	return nil
}

// CheckMax fails with amm.ErrSlippageExceeded when actual rises above the
// caller's maximum. Used for inputs and costs.
func CheckMax(actual, maximum uint64) error {
	if actual > maximum {
		return fmt.Errorf("%w: got %d, caller maximum %d", amm.ErrSlippageExceeded, actual, maximum)
	}
	return nil
}
