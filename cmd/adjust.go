package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
)

type adjustCmd struct{}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "set the open quantity of a leg" }
func (*adjustCmd) Usage() string {
	return `tl adjust <trade> <leg> <open-quantity>

  Sets the open quantity of a leg, e.g. after an assignment or a partial
  close recorded elsewhere. The quantity is zero or has the sign of the
  original quantity, without exceeding it.
`
}

func (*adjustCmd) SetFlags(*flag.FlagSet) {}

func (*adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(stderr, "Error: adjust expects a trade, a leg id and a quantity")
		return subcommands.ExitUsageError
	}
	legID, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid leg id %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	qty, err := strconv.Atoi(f.Arg(2))
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid quantity %q\n", f.Arg(2))
		return subcommands.ExitUsageError
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
	if err := l.SetOpenQuantity(t, legID, qty); err != nil {
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
	fmt.Fprintf(stdout, "Leg %d of trade #%d %s open quantity set to %d, trade is %s\n",
		legID, tradeNumber(l, t), t.TickerSymbol, qty, state)
	return subcommands.ExitSuccess
}
