package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradelog/sqlexport"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
	list   bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger to a SQLite database" }
func (*exportCmd) Usage() string {
	return `tl export [-o <file>] [-list]

  Appends a snapshot of the ledger, derived fields included, to a SQLite
  database for ad hoc queries. Earlier snapshots are kept.
  With -list, lists the snapshots of the database instead.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "database file (default from the configuration)")
	f.BoolVar(&c.list, "list", false, "list the snapshots")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return c.listSnapshots(ctx, a)
	}

	a, s, l, status := setup(false)
	if status != subcommands.ExitSuccess {
		return status
	}
	e, path, status := c.open(a)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer e.Close()

	snap, err := e.Export(ctx, l, s.Path())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Exported %d trades to %s, snapshot %s\n", snap.Trades, path, snap.ID)
	return subcommands.ExitSuccess
}

func (c *exportCmd) listSnapshots(ctx context.Context, a *app) subcommands.ExitStatus {
	e, _, status := c.open(a)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer e.Close()

	snaps, err := e.Snapshots(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, snap := range snaps {
		fmt.Fprintf(stdout, "%s\t%s\t%d trades\t%s\n", snap.ID, snap.CreatedAt.Local().Format("2006-01-02 15:04"), snap.Trades, snap.Source)
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) open(a *app) (*sqlexport.Exporter, string, subcommands.ExitStatus) {
	path := c.output
	if path == "" {
		path = a.cfg.ExportPath()
	}
	e, err := sqlexport.Open(path, a.log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, "", subcommands.ExitFailure
	}
	return e, path, subcommands.ExitSuccess
}
