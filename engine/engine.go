// Package engine implements the pool invariant engine: the authoritative
// state of every constant-product pool and the four operations that mutate
// it. Each operation validates everything before touching state, applies its
// external transfers with compensation on partial failure, and emits exactly
// one event once committed.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sendswap/sendswap-core-go/amm"
	"github.com/sendswap/sendswap-core-go/amm/swapmath"
	"github.com/sendswap/sendswap-core-go/ledger"
)

// Config holds the engine's dependencies.
type Config struct {
	// Ledger must be the adapter's privileged view: the engine is the only
	// component allowed to move pool-held balances.
	Ledger ledger.Ledger

	Logger   Logger
	Registry prometheus.Registerer

	// EventHandler receives one event per committed operation. Optional.
	EventHandler EventHandlerFunc
}

// validate checks that required dependencies are present.
func (c *Config) validate() error {
	if c.Ledger == nil {
		return errors.New("config: Ledger cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	return nil
}

// Engine is the pool ledger. Pools are kept in an arena keyed by pool ID;
// the registry mutex guards only the map, each pool record has its own lock,
// and reads go through an atomically swapped snapshot so a quoter never
// observes an intermediate state.
type Engine struct {
	mu    sync.RWMutex // guards pools map membership
	pools map[amm.PoolID]*poolEntry

	viewMu     sync.Mutex // serializes snapshot publication
	cachedView atomic.Pointer[registryView]

	ledger       ledger.Ledger
	logger       Logger
	metrics      *Metrics
	eventHandler EventHandlerFunc
}

// poolEntry pairs one pool record with its lock. Two operations against the
// same pool never interleave; operations on distinct pools proceed in
// parallel.
type poolEntry struct {
	mu   sync.Mutex
	pool amm.Pool
}

// registryView is an immutable snapshot of every pool record.
type registryView struct {
	pools map[amm.PoolID]amm.Pool
}

// withPool returns a copy of the view with one record replaced or inserted.
func (v *registryView) withPool(p amm.Pool) *registryView {
	next := make(map[amm.PoolID]amm.Pool, len(v.pools)+1)
	for id, pool := range v.pools {
		next[id] = pool
	}
	next[p.ID] = p
	return &registryView{pools: next}
}

// New constructs an engine from a configuration, returning an error if the
// configuration is invalid.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		pools:        make(map[amm.PoolID]*poolEntry),
		ledger:       cfg.Ledger,
		logger:       cfg.Logger,
		metrics:      NewMetrics(cfg.Registry),
		eventHandler: cfg.EventHandler,
	}
	e.cachedView.Store(&registryView{pools: make(map[amm.PoolID]amm.Pool)})
	return e, nil
}

// entry returns the registered pool entry for the given ID.
func (e *Engine) entry(id amm.PoolID) (*poolEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.pools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", amm.ErrPoolNotFound, id.Hex())
	}
	return entry, nil
}

// publish swaps in a new snapshot containing the updated record. Callers hold
// the owning pool's lock; viewMu serializes publications across pools.
func (e *Engine) publish(p amm.Pool) {
	e.viewMu.Lock()
	defer e.viewMu.Unlock()
	e.cachedView.Store(e.cachedView.Load().withPool(p))
}

// emit delivers the event for a committed operation.
func (e *Engine) emit(ev Event) {
	ev.Timestamp = time.Now().UnixNano()
	if e.eventHandler != nil {
		e.eventHandler(ev)
	}
}

// --- Read methods (lock-free, snapshot-backed) ---

// GetPool returns the current record for the given pool ID.
func (e *Engine) GetPool(id amm.PoolID) (amm.Pool, bool) {
	p, ok := e.cachedView.Load().pools[id]
	return p, ok
}

// View returns a snapshot of every pool record, ordered by pool ID.
func (e *Engine) View() []amm.Pool {
	snapshot := e.cachedView.Load().pools
	out := make([]amm.Pool, 0, len(snapshot))
	for _, p := range snapshot {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// Quote previews a swap against the current snapshot: the output amount and
// the fee that Swap would charge for amountIn right now. It never mutates
// state and observes only committed snapshots.
func (e *Engine) Quote(id amm.PoolID, assetIn common.Address, amountIn uint64) (amountOut, fee uint64, err error) {
	if amountIn == 0 {
		return 0, 0, fmt.Errorf("%w: amountIn is zero", amm.ErrInvalidAmount)
	}
	p, ok := e.GetPool(id)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", amm.ErrPoolNotFound, id.Hex())
	}
	if !p.Funded() {
		return 0, 0, fmt.Errorf("%w: pool %s is empty", amm.ErrInsufficientLiquidity, id.Hex())
	}
	reserveIn, reserveOut, _, _, _, err := p.ReservesFor(assetIn)
	if err != nil {
		return 0, 0, err
	}
	fee, err = swapmath.Fee(amountIn, p.FeeNumerator, p.FeeDenominator)
	if err != nil {
		return 0, 0, err
	}
	amountOut, err = swapmath.AmountOut(amountIn-fee, reserveIn, reserveOut)
	if err != nil {
		return 0, 0, err
	}
	return amountOut, fee, nil
}

// QuoteAmountIn previews the inverse direction: the input required to receive
// amountOut. The result errs on the high side, so swapping the quoted amount
// delivers at least amountOut against an unchanged pool.
func (e *Engine) QuoteAmountIn(id amm.PoolID, assetIn common.Address, amountOut uint64) (uint64, error) {
	if amountOut == 0 {
		return 0, fmt.Errorf("%w: amountOut is zero", amm.ErrInvalidAmount)
	}
	p, ok := e.GetPool(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", amm.ErrPoolNotFound, id.Hex())
	}
	if !p.Funded() {
		return 0, fmt.Errorf("%w: pool %s is empty", amm.ErrInsufficientLiquidity, id.Hex())
	}
	reserveIn, reserveOut, _, _, _, err := p.ReservesFor(assetIn)
	if err != nil {
		return 0, err
	}
	return swapmath.AmountIn(amountOut, reserveIn, reserveOut, p.FeeNumerator, p.FeeDenominator)
}

// --- External transfer staging ---

// transferLeg is one balance movement staged by an operation.
type transferLeg struct {
	from, to common.Address
	asset    common.Address
	amount   uint64
}

// applyTransfers executes staged legs in order. If a leg fails, every
// already-applied leg is reversed before returning, leaving the ledger at its
// pre-operation state.
func (e *Engine) applyTransfers(legs []transferLeg) error {
	for i, leg := range legs {
		if leg.amount == 0 {
			continue
		}
		if err := e.applyLeg(leg); err != nil {
			e.reverseTransfers(legs[:i])
			return err
		}
	}
	return nil
}

func (e *Engine) applyLeg(leg transferLeg) error {
	return e.ledger.Transfer(leg.from, leg.to, leg.asset, leg.amount)
}

// reverseTransfers compensates applied legs in reverse order. A failing
// compensation is logged and skipped: an adapter that accepted a transfer and
// refuses its reversal has broken its contract, and the remaining legs must
// still be unwound.
func (e *Engine) reverseTransfers(applied []transferLeg) {
	for i := len(applied) - 1; i >= 0; i-- {
		leg := applied[i]
		if leg.amount == 0 {
			continue
		}
		if err := e.ledger.Transfer(leg.to, leg.from, leg.asset, leg.amount); err != nil {
			e.logger.Error("compensating transfer failed",
				"from", leg.to.Hex(),
				"to", leg.from.Hex(),
				"asset", leg.asset.Hex(),
				"amount", leg.amount,
				"error", err,
			)
		}
	}
}
