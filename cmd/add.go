package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type addCmd struct {
	name        string
	category    int
	buyingPower decimalFlag
	newTrade    bool
	notes       string

	date        dateFlag
	description string
	kind        string
	quantity    int
	price       decimalFlag
	multiplier  decimalFlag
	fees        decimalFlag
	total       decimalFlag
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a transaction to a trade" }
func (*addCmd) Usage() string {
	return `tl add [flags] <symbol> [<leg>...]

  Adds a transaction to the open trade on <symbol>, or to a new trade when
  there is none or -new is given. Each <leg> is written
  ACTION:QTY[:P|C:STRIKE[:EXPIRY]], the leg kind is the transaction kind.
  The sign of the quantity comes from the action.

Usage Examples:
# Sell a put, 124.35 credited.
$ tl add -d 2025-01-02 -desc "Short put" -price 1.25 -mult 100 -fees 0.65 -total 124.35 AAPL STO:1:P:150:2025-02-21
# Buy shares.
$ tl add -kind shares -qty 100 -price 400 -total -40000 MSFT BTO:100
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "ticker name of a new trade")
	f.IntVar(&c.category, "category", 0, "category of a new trade")
	f.Var(&c.buyingPower, "bp", "buying power of the trade")
	f.BoolVar(&c.newTrade, "new", false, "start a new trade even if one is open on the symbol")
	f.StringVar(&c.notes, "notes", "", "notes appended to the trade")

	f.Var(&c.date, "d", "transaction date (default today)")
	f.StringVar(&c.description, "desc", "", "transaction description")
	f.StringVar(&c.kind, "kind", "options", "instrument kind: options, shares, futures, dividend, other")
	f.IntVar(&c.quantity, "qty", 1, "transaction quantity")
	f.Var(&c.price, "price", "unit price")
	f.Var(&c.multiplier, "mult", "contract multiplier")
	f.Var(&c.fees, "fees", "fees")
	f.Var(&c.total, "total", "signed cash effect, fees included: credits positive, debits negative")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: add expects a symbol")
		return subcommands.ExitUsageError
	}
	kind, err := tradelog.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := &tradelog.Transaction{
		Kind:        kind,
		Description: c.description,
		Date:        c.date.get(),
		Quantity:    c.quantity,
		Price:       c.price.value,
		Multiplier:  c.multiplier.value,
		Fees:        c.fees.value,
		Total:       c.total.value,
	}
	for _, arg := range f.Args()[1:] {
		leg, err := parseLeg(arg, kind)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		tx.Legs = append(tx.Legs, leg)
	}

	_, s, l, status := setup(true)
	if status != subcommands.ExitSuccess {
		return status
	}

	symbol := strings.ToUpper(f.Arg(0))
	t, ok := l.FindOpen(symbol)
	if !ok || c.newTrade {
		t = l.NewTrade(symbol, c.name, c.category)
	}
	if !c.buyingPower.value.IsZero() {
		t.BuyingPower = c.buyingPower.value
	}
	if c.notes != "" {
		t.Notes = strings.TrimPrefix(t.Notes+"\n"+c.notes, "\n")
	}
	if err := l.AddTransaction(t, tx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := s.Save(l); err != nil {
		fmt.Fprintf(stderr, "Error: could not save ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	ids := make([]string, len(tx.Legs))
	for i, leg := range tx.Legs {
		ids[i] = fmt.Sprint(leg.ID)
	}
	fmt.Fprintf(stdout, "Added transaction to trade #%d %s, legs [%s], ACB %s\n",
		tradeNumber(l, t), t.TickerSymbol, strings.Join(ids, " "), t.ACB.StringFixed(2))
	return subcommands.ExitSuccess
}
