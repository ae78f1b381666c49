// Package cmd implements the tl command line application to keep a ledger of
// trades.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/config"
	"github.com/etnz/tradelog/date"
	"github.com/etnz/tradelog/logging"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&listCmd{}, "view")
	c.Register(&showCmd{}, "view")

	c.Register(&addCmd{}, "edit")
	c.Register(&adjustCmd{}, "edit")
	c.Register(&closeCmd{}, "edit")

	c.Register(&fmtCmd{}, "maintenance")
	c.Register(&migrateCmd{}, "maintenance")
	c.Register(&exportCmd{}, "maintenance")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default tradelog.yaml in the working or ledger directory)")
var ledgerDir = flag.String("dir", "", "Directory of the ledger files, overrides the configuration")

// stdout receives the command outputs, stderr the messages.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// today is the clock of the ledger.
var today = date.Today

// app is the configuration and logger of a command run.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// newApp loads the configuration, applying the global flags.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerDir != "" {
		cfg.Dir = *ledgerDir
	}
	return &app{cfg: cfg, log: logging.NewWithConsole(cfg.Log, stderr)}, nil
}

// store returns the store of the configured ledger files.
func (a *app) store() *tradelog.Store {
	return tradelog.NewStore(a.cfg.Dir,
		tradelog.WithLogger(a.log),
		tradelog.WithClock(today),
		tradelog.WithFileNames(a.cfg.LedgerFile, a.cfg.LegacyFile),
	)
}

// load reads the ledger. A ledger that does not exist yet is empty when
// create is true.
func (a *app) load(create bool) (*tradelog.Store, *tradelog.Ledger, error) {
	s := a.store()
	l, err := s.Load()
	if errors.Is(err, fs.ErrNotExist) && create {
		a.log.Warn().Str("path", s.Path()).Msg("ledger does not exist, starting an empty one")
		return s, tradelog.NewLedger(), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return s, l, nil
}

// setup runs newApp and load, reporting errors on stderr.
func setup(create bool) (*app, *tradelog.Store, *tradelog.Ledger, subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, nil, nil, subcommands.ExitFailure
	}
	s, l, err := a.load(create)
	if err != nil {
		fmt.Fprintf(stderr, "Error: could not load ledger: %v\n", err)
		return nil, nil, nil, subcommands.ExitFailure
	}
	return a, s, l, subcommands.ExitSuccess
}

// findTrade resolves a trade reference: its 1-based position in the ledger, as
// printed by list, or a ticker symbol. A symbol designates its open trade, or
// its most recent one.
func findTrade(l *tradelog.Ledger, ref string) (*tradelog.Trade, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		trades := l.Trades()
		if n < 1 || n > len(trades) {
			return nil, fmt.Errorf("%w: #%d, the ledger has %d trades", tradelog.ErrTradeNotFound, n, len(trades))
		}
		return trades[n-1], nil
	}
	symbol := strings.ToUpper(ref)
	if t, ok := l.FindOpen(symbol); ok {
		return t, nil
	}
	if found := l.Find(symbol); len(found) > 0 {
		return found[len(found)-1], nil
	}
	return nil, fmt.Errorf("%w: %s", tradelog.ErrTradeNotFound, symbol)
}

// tradeNumber returns the 1-based position of t in the ledger.
func tradeNumber(l *tradelog.Ledger, t *tradelog.Trade) int {
	for i, x := range l.Trades() {
		if x == t {
			return i + 1
		}
	}
	return 0
}

// TradeRefs returns the symbols of the ledger trades, for shell completion.
// Errors give no symbols.
func TradeRefs() []string {
	a, err := newApp()
	if err != nil {
		return nil
	}
	a.log = zerolog.Nop()
	// loading could migrate the ledger, completion only reads.
	if !exists(a.cfg.Dir, a.cfg.LedgerFile) {
		return nil
	}
	_, l, err := a.load(false)
	if err != nil {
		return nil
	}
	var refs []string
	seen := map[string]bool{}
	for _, t := range l.Trades() {
		if !seen[t.TickerSymbol] {
			seen[t.TickerSymbol] = true
			refs = append(refs, t.TickerSymbol)
		}
	}
	return refs
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
