// Command tl keeps a ledger of option, share and future trades.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradelog/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when run by the shell to complete a command line.
	completion(commander).Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line of every subcommand.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		switch c.Name() {
		case "show", "adjust", "close", "add":
			sub.Args = trades{}
		case "help":
			sub.Args = commandNames(commander)
		default:
			sub.Args = predict.Nothing
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			flags[f.Name] = predict.Files("*.yaml")
		case "dir":
			flags[f.Name] = predict.Dirs("*")
		case "o":
			flags[f.Name] = predict.Files("*.sqlite")
		case "kind":
			flags[f.Name] = predict.Set{"options", "shares", "futures", "dividend", "other"}
		case "currency":
			flags[f.Name] = predict.Set{"USD", "EUR", "GBP", "CAD", "CHF", "JPY"}
		default:
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				flags[f.Name] = predict.Nothing
			} else {
				flags[f.Name] = predict.Something
			}
		}
	})
	return flags
}

func commandNames(commander *subcommands.Commander) predict.Set {
	var names predict.Set
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})
	return names
}

// trades predicts the ticker symbols of the ledger.
type trades struct{}

func (trades) Predict(string) []string { return cmd.TradeRefs() }
