package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "rewrites the ledger file into its canonical form"
}
func (*fmtCmd) Usage() string {
	return `tl fmt [-check]

  Reads the ledger file and writes it back in canonical form: derived open
  flags resolved, next leg ids repaired, orphan and malformed lines dropped,
  amounts with a fixed number of decimals.
  With -check nothing is written, the command fails if the file is not in
  canonical form.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "only check that the file is canonical")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, s, l, status := setup(false)
	if status != subcommands.ExitSuccess {
		return status
	}

	if c.check {
		var want bytes.Buffer
		if err := tradelog.EncodeLedger(&want, l); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		got, err := os.ReadFile(s.Path())
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if !bytes.Equal(got, want.Bytes()) {
			fmt.Fprintf(stdout, "%s is not formatted\n", s.Path())
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := s.Save(l); err != nil {
		fmt.Fprintf(stderr, "Error: could not save ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Formatted %s, %d trades\n", s.Path(), l.Len())
	return subcommands.ExitSuccess
}
