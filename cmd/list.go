package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradelog/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	all      bool
	raw      bool
	currency string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the trades of the ledger" }
func (*listCmd) Usage() string {
	return `tl list [-a] [-raw] [-currency <code>]

  Lists the open trades, or all of them with -a, with their open position,
  earliest days to expiry, adjusted cost basis and return on buying power.
  Trades are numbered by their position in the ledger, other commands
  accept that number to designate a trade.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "a", false, "list closed trades too")
	f.BoolVar(&c.raw, "raw", false, "print markdown instead of rendering it for the terminal")
	f.StringVar(&c.currency, "currency", renderer.DefaultCurrency, "currency of the amounts")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, _, l, status := setup(false)
	if status != subcommands.ExitSuccess {
		return status
	}
	view := renderer.NewTradeList(l.Trades(), !c.all, renderer.Options{Currency: c.currency})
	return printMarkdown(renderer.RenderTradeList(view), c.raw)
}

// printMarkdown writes md to stdout, rendered for the terminal unless raw.
func printMarkdown(md string, raw bool) subcommands.ExitStatus {
	if raw {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprintf(stderr, "Error: could not create renderer: %v\n", err)
		return subcommands.ExitFailure
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintf(stderr, "Error: could not render: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(stdout, out)
	return subcommands.ExitSuccess
}
