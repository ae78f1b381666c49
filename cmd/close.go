package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type closeCmd struct {
	date        dateFlag
	description string
	price       decimalFlag
	multiplier  decimalFlag
	fees        decimalFlag
	total       decimalFlag
	roll        listFlag
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close or roll open legs of a trade" }
func (*closeCmd) Usage() string {
	return `tl close [flags] <trade> <leg>...

  Closes the open legs of a trade in a single transaction. Each closed leg
  gets a closing leg pointing back to it. With -roll, new legs are opened in
  the same transaction, written ACTION:QTY[:P|C:STRIKE[:EXPIRY]].

Usage Examples:
# Buy back the put of leg 1 for 20.65 plus fees.
$ tl close -desc "Buy back" -total -21.30 AAPL 1
# Roll it down and out.
$ tl close -desc Roll -total 30 -roll STO:1:P:140:2025-03-21 AAPL 1
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.date, "d", "transaction date (default today)")
	f.StringVar(&c.description, "desc", "Close", "transaction description")
	f.Var(&c.price, "price", "unit price")
	f.Var(&c.multiplier, "mult", "contract multiplier")
	f.Var(&c.fees, "fees", "fees")
	f.Var(&c.total, "total", "signed cash effect, fees included")
	f.Var(&c.roll, "roll", "leg to open in the same transaction, repeatable")
}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(stderr, "Error: close expects a trade and at least one leg id")
		return subcommands.ExitUsageError
	}
	var legIDs []int
	for _, arg := range f.Args()[1:] {
		id, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid leg id %q\n", arg)
			return subcommands.ExitUsageError
		}
		legIDs = append(legIDs, id)
	}

	_, s, l, status := setup(false)
	if status != subcommands.ExitSuccess {
		return status
	}
	t, err := findTrade(l, f.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// the transaction kind is the one of the first closed leg.
	kind := tradelog.Options
	if leg, ok := t.Leg(legIDs[0]); ok {
		kind = leg.Kind
	}
	var opens []*tradelog.Leg
	for _, spec := range c.roll {
		leg, err := parseLeg(spec, kind)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		opens = append(opens, leg)
	}

	tx := &tradelog.Transaction{
		Kind:        kind,
		Description: c.description,
		Date:        c.date.get(),
		Quantity:    len(legIDs),
		Price:       c.price.value,
		Multiplier:  c.multiplier.value,
		Fees:        c.fees.value,
		Total:       c.total.value,
	}
	if err := l.RollPosition(t, tx, legIDs, opens...); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := s.Save(l); err != nil {
		fmt.Fprintf(stderr, "Error: could not save ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	state := "open"
	if !t.IsOpen {
		state = "closed"
	}
	fmt.Fprintf(stdout, "Closed %d legs of trade #%d %s, opened %d, trade is %s, ACB %s\n",
		len(legIDs), tradeNumber(l, t), t.TickerSymbol, len(opens), state, t.ACB.StringFixed(2))
	return subcommands.ExitSuccess
}
