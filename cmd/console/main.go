// Command console runs an interactive pool engine against an in-memory
// ledger: create pools, fund accounts, add and remove liquidity, swap, and
// watch the emitted events. Everything lives in process; exiting discards it.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/sendswap/sendswap-core-go/amm"
	"github.com/sendswap/sendswap-core-go/cmd/console/config"
	"github.com/sendswap/sendswap-core-go/engine"
	"github.com/sendswap/sendswap-core-go/ledger"
)

// --- VISUAL CONSTANTS ---
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Cyan   = "\033[36m"

	maxRecentEvents = 32
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

func fail(format string, args ...any) {
	fmt.Println(Red + fmt.Sprintf(format, args...) + Reset)
}

func ok(format string, args ...any) {
	fmt.Println(Green + fmt.Sprintf(format, args...) + Reset)
}

// console bundles the engine, the backing store, and the event tail.
type console struct {
	cfg    config.Config
	engine *engine.Engine
	store  *ledger.InMemory

	mu     sync.Mutex
	events []engine.Event
}

func (c *console) record(ev engine.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	if len(c.events) > maxRecentEvents {
		c.events = c.events[len(c.events)-maxRecentEvents:]
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	flags := pflag.NewFlagSet("console", pflag.ContinueOnError)
	cfgFile := flags.String("config", "", "path to a config file")
	flags.Uint64("fee-numerator", 3, "fee numerator for created pools")
	flags.Uint64("fee-denominator", 1000, "fee denominator for created pools")
	flags.String("fee-recipient", "", "fee recipient for created pools")
	flags.String("log-level", "info", "debug|info|warn|error")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	c := &console{cfg: cfg, store: ledger.NewInMemory()}
	eng, err := engine.New(&engine.Config{
		Ledger:       c.store.Privileged(),
		Logger:       logger,
		Registry:     prometheus.NewRegistry(),
		EventHandler: c.record,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build engine:", err)
		os.Exit(1)
	}
	c.engine = eng

	header("sendswap console")
	fmt.Println("type 'help' for commands")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Bold + "> " + Reset)
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "exit", "quit":
			return
		case "help":
			c.printHelp()
		case "fund":
			c.cmdFund(fields[1:])
		case "create":
			c.cmdCreate(fields[1:])
		case "add":
			c.cmdAdd(fields[1:])
		case "swap":
			c.cmdSwap(fields[1:])
		case "remove":
			c.cmdRemove(fields[1:])
		case "quote":
			c.cmdQuote(fields[1:])
		case "pools":
			c.cmdPools()
		case "balances":
			c.cmdBalances(fields[1:])
		case "events":
			c.cmdEvents()
		default:
			fail("unknown command %q", fields[0])
		}
	}
}

func (c *console) printHelp() {
	header("commands")
	fmt.Println(`  fund <account> <asset> <amount>
  create <assetA> <assetB>
  add <account> <pool> <amountA> <amountB> <minShares>
  swap <account> <pool> <assetIn> <amountIn> <minOut>
  remove <account> <pool> <shares> <minA> <minB>
  quote <pool> <assetIn> <amountIn>
  pools
  balances <account>
  events
  exit`)
}

func parseAmount(s string) (uint64, error) {
	return strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
}

func (c *console) cmdFund(args []string) {
	if len(args) != 3 {
		fail("usage: fund <account> <asset> <amount>")
		return
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		fail("bad amount: %v", err)
		return
	}
	if err := c.store.Fund(common.HexToAddress(args[0]), common.HexToAddress(args[1]), amount); err != nil {
		fail("fund: %v", err)
		return
	}
	ok("funded %s with %d of %s", args[0], amount, args[1])
}

func (c *console) cmdCreate(args []string) {
	if len(args) != 2 {
		fail("usage: create <assetA> <assetB>")
		return
	}
	id, err := c.engine.InitializePool(
		common.HexToAddress(args[0]),
		common.HexToAddress(args[1]),
		c.cfg.FeeNumerator,
		c.cfg.FeeDenominator,
		common.HexToAddress(c.cfg.FeeRecipient),
	)
	if err != nil {
		fail("create: %v", err)
		return
	}
	ok("pool %s (fee %d/%d)", id.Hex(), c.cfg.FeeNumerator, c.cfg.FeeDenominator)
}

func (c *console) cmdAdd(args []string) {
	if len(args) != 5 {
		fail("usage: add <account> <pool> <amountA> <amountB> <minShares>")
		return
	}
	amountA, err1 := parseAmount(args[2])
	amountB, err2 := parseAmount(args[3])
	minShares, err3 := parseAmount(args[4])
	if err1 != nil || err2 != nil || err3 != nil {
		fail("bad amount")
		return
	}
	shares, err := c.engine.AddLiquidity(common.HexToAddress(args[0]), amm.PoolID(common.HexToHash(args[1])), amountA, amountB, minShares)
	if err != nil {
		fail("add: %v", err)
		return
	}
	ok("minted %d shares", shares)
}

func (c *console) cmdSwap(args []string) {
	if len(args) != 5 {
		fail("usage: swap <account> <pool> <assetIn> <amountIn> <minOut>")
		return
	}
	amountIn, err1 := parseAmount(args[3])
	minOut, err2 := parseAmount(args[4])
	if err1 != nil || err2 != nil {
		fail("bad amount")
		return
	}
	out, err := c.engine.Swap(common.HexToAddress(args[0]), amm.PoolID(common.HexToHash(args[1])), common.HexToAddress(args[2]), amountIn, minOut)
	if err != nil {
		fail("swap: %v", err)
		return
	}
	ok("received %d", out)
}

func (c *console) cmdRemove(args []string) {
	if len(args) != 5 {
		fail("usage: remove <account> <pool> <shares> <minA> <minB>")
		return
	}
	shares, err1 := parseAmount(args[2])
	minA, err2 := parseAmount(args[3])
	minB, err3 := parseAmount(args[4])
	if err1 != nil || err2 != nil || err3 != nil {
		fail("bad amount")
		return
	}
	amountA, amountB, err := c.engine.RemoveLiquidity(common.HexToAddress(args[0]), amm.PoolID(common.HexToHash(args[1])), shares, minA, minB)
	if err != nil {
		fail("remove: %v", err)
		return
	}
	ok("received %d / %d", amountA, amountB)
}

func (c *console) cmdQuote(args []string) {
	if len(args) != 3 {
		fail("usage: quote <pool> <assetIn> <amountIn>")
		return
	}
	amountIn, err := parseAmount(args[2])
	if err != nil {
		fail("bad amount: %v", err)
		return
	}
	out, fee, err := c.engine.Quote(amm.PoolID(common.HexToHash(args[0])), common.HexToAddress(args[1]), amountIn)
	if err != nil {
		fail("quote: %v", err)
		return
	}
	ok("out %d (fee %d)", out, fee)
}

func (c *console) cmdPools() {
	header("pools")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tASSET A\tASSET B\tRESERVE A\tRESERVE B\tSUPPLY\tFEE")
	for _, p := range c.engine.View() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d/%d\n",
			p.ID.Hex(), p.AssetA.Hex(), p.AssetB.Hex(),
			p.ReserveA, p.ReserveB, p.ShareSupply,
			p.FeeNumerator, p.FeeDenominator,
		)
	}
	w.Flush()
}

func (c *console) cmdBalances(args []string) {
	if len(args) != 1 {
		fail("usage: balances <account>")
		return
	}
	account := common.HexToAddress(args[0])
	header("balances for " + account.Hex())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POOL\tASSET A\tASSET B\tSHARES")
	for _, p := range c.engine.View() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
			p.ID.Hex(),
			c.store.Balance(account, p.AssetA),
			c.store.Balance(account, p.AssetB),
			c.store.ShareBalance(p.ID, account),
		)
	}
	w.Flush()
}

func (c *console) cmdEvents() {
	c.mu.Lock()
	events := make([]engine.Event, len(c.events))
	copy(events, c.events)
	c.mu.Unlock()

	header("recent events")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPOOL\tCALLER\tIN\tOUT\tFEE\tSHARES\tSUPPLY")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			ev.Kind, ev.Pool.Hex(), ev.Caller.Hex(),
			ev.AmountIn, ev.AmountOut, ev.Fee, ev.Shares, ev.Post.ShareSupply,
		)
	}
	w.Flush()
}
