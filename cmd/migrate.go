package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "upgrade a legacy ledger file" }
func (*migrateCmd) Usage() string {
	return `tl migrate

  Rewrites the legacy ledger file into the current one and removes it. Any
  command loading the ledger does it too, this one does only that. Running
  it again does nothing.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	m := tradelog.Migrator{
		Dir:         a.cfg.Dir,
		CurrentName: a.cfg.LedgerFile,
		LegacyName:  a.cfg.LegacyFile,
		Log:         a.log,
	}
	done, err := m.Migrate()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	mig := m.ResolveActivePath()
	if !done {
		fmt.Fprintf(stdout, "Nothing to migrate, the ledger is %s\n", mig.Active)
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(stdout, "Migrated the ledger to %s\n", mig.Target)
	return subcommands.ExitSuccess
}
