package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradelog/renderer"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type showCmd struct {
	yaml     bool
	raw      bool
	short    bool
	currency string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the detail of a trade" }
func (*showCmd) Usage() string {
	return `tl show [-yaml] [-raw] [-short] <trade>

  Shows a trade, its open legs and all its transactions. <trade> is the
  number printed by list, or a ticker symbol for its open (else latest) trade.

Usage Examples:
$ tl show 3
$ tl show -yaml AAPL
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yaml, "yaml", false, "print the trade as YAML, derived fields included")
	f.BoolVar(&c.raw, "raw", false, "print markdown instead of rendering it for the terminal")
	f.BoolVar(&c.short, "short", false, "do not show the transactions")
	f.StringVar(&c.currency, "currency", renderer.DefaultCurrency, "currency of the amounts")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: show expects exactly one trade")
		return subcommands.ExitUsageError
	}
	_, _, l, status := setup(false)
	if status != subcommands.ExitSuccess {
		return status
	}
	t, err := findTrade(l, f.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.yaml {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			fmt.Fprintf(stderr, "Error: could not encode trade: %v\n", err)
			return subcommands.ExitFailure
		}
		enc.Close()
		return subcommands.ExitSuccess
	}

	opts := renderer.Options{Currency: c.currency, SkipTransactions: c.short}
	return printMarkdown(renderer.RenderTrade(renderer.NewTradeView(t, opts), opts), c.raw)
}
