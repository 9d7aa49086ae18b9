// Command admin manages the board and the ledger outside the HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&admitCmd{}, "board")
	commander.Register(&delistCmd{}, "board")
	commander.Register(&seedCmd{}, "board")
	commander.Register(&tokenCmd{}, "auth")
	commander.Register(&hashPasswordCmd{}, "auth")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
