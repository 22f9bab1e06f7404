package amm

import "errors"

var (
	// ErrInvalidFeeParameters is returned when a pool is initialized with a zero
	// fee denominator or a fee ratio of 100% or more.
	ErrInvalidFeeParameters = errors.New("invalid fee parameters")
	// ErrPoolAlreadyExists is returned when a pool for the derived pool ID is already registered.
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrPoolNotFound is returned when no pool is registered under the given pool ID.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrInvalidAmount is returned for zero or otherwise out-of-domain input amounts.
	ErrInvalidAmount = errors.New("invalid input amount")
	// ErrArithmeticOverflow is returned when a result cannot be represented in 64 bits,
	// or when a divisor is zero. Reserve arithmetic never wraps or saturates.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrSlippageExceeded is returned when a computed result is worse than the
	// caller-specified bound.
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")
	// ErrInsufficientLiquidity is returned when a swap would drain a reserve, when its
	// output rounds to nothing, or when the pool holds no liquidity at all.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInsufficientShares is returned when a withdrawal requests more shares than the
	// caller holds.
	ErrInsufficientShares = errors.New("insufficient share balance")
	// ErrAssetMismatch is returned when the specified asset does not belong to the pool,
	// or when both pool assets are the same.
	ErrAssetMismatch = errors.New("asset mismatch")
	// ErrInvariantViolation is returned when a swap would decrease the constant-product
	// invariant. The formula guarantees this never happens; the check is a hard stop
	// against a computation bug corrupting reserves.
	ErrInvariantViolation = errors.New("constant product invariant violated")
)
