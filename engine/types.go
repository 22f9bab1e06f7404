package engine

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/sendswap/sendswap-core-go/amm"
)

// OperationKind names one of the four pool operations.
type OperationKind string

const (
	OpInitializePool  OperationKind = "initialize_pool"
	OpAddLiquidity    OperationKind = "add_liquidity"
	OpSwap            OperationKind = "swap"
	OpRemoveLiquidity OperationKind = "remove_liquidity"
)

// PoolSnapshot captures a pool's reserves and share supply at a point in time.
type PoolSnapshot struct {
	ReserveA    uint64 `json:"reserveA"`
	ReserveB    uint64 `json:"reserveB"`
	ShareSupply uint64 `json:"shareSupply"`
}

// Event is the structured record of one committed operation. Exactly one
// event is emitted per committed operation and none for failed or rolled-back
// ones; indexers and analytics rely on that.
type Event struct {
	Kind   OperationKind  `json:"kind"`
	Pool   amm.PoolID     `json:"pool"`
	Caller common.Address `json:"caller"`

	// Pre- and post-operation pool state.
	Pre  PoolSnapshot `json:"pre"`
	Post PoolSnapshot `json:"post"`

	// Liquidity legs (add/remove): the asset-A and asset-B amounts moved and
	// the shares minted or burned.
	AmountA uint64 `json:"amountA,omitempty"`
	AmountB uint64 `json:"amountB,omitempty"`
	Shares  uint64 `json:"shares,omitempty"`

	// Swap legs.
	AssetIn   common.Address `json:"assetIn,omitempty"`
	AssetOut  common.Address `json:"assetOut,omitempty"`
	AmountIn  uint64         `json:"amountIn,omitempty"`
	AmountOut uint64         `json:"amountOut,omitempty"`
	Fee       uint64         `json:"fee,omitempty"`

	// The Unix nanosecond timestamp at which the operation committed.
	Timestamp int64 `json:"timestamp"`
}

// EventHandlerFunc receives each committed operation's event. It is invoked
// synchronously after the state commit; a slow handler slows the pool.
type EventHandlerFunc func(Event)

// Logger defines a standard interface for structured, leveled logging,
// compatible with the standard library's slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
