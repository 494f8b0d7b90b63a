// Command coinhist keeps daily crypto-asset price histories up to date.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/coinhist/cmd"
	"github.com/google/subcommands"
)

// mode flags, alternatives to the subcommands.
var (
	newFlag    = flag.String("new", "", "same as 'coinhist new <symbol>'")
	updateFlag = flag.Bool("update", false, "same as 'coinhist update'")
	allFlag    = flag.Bool("all", false, "same as 'coinhist all'")
)

func main() {
	cmd.Completion().Complete("coinhist")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	cmd.Register(subcommands.DefaultCommander)

	flag.Parse()
	if flag.NArg() == 0 {
		// rewrite the mode flags as a subcommand.
		var args []string
		switch {
		case *allFlag:
			args = []string{"all"}
		case *updateFlag:
			args = []string{"update"}
		case *newFlag != "":
			args = []string{"new", *newFlag}
		default:
			fmt.Println("No arguments provided. Defaulting to update mode. Use -help for more options.")
			args = []string{"update"}
		}
		flag.CommandLine.Parse(args)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
