package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/coinhist"
	"github.com/etnz/coinhist/renderer"
	"github.com/google/subcommands"
)

type newCmd struct{}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "download the history of a new asset" }
func (*newCmd) Usage() string {
	return `coinhist new <symbol>

Resolve <symbol> to a CoinGecko asset (by symbol, id or name) and download
its daily prices over the last -max-days days into its history file.
An existing file for this asset is replaced.
`
}
func (c *newCmd) SetFlags(f *flag.FlagSet) {}

func (c *newCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("exactly one symbol expected")
		return subcommands.ExitUsageError
	}
	a, closer, err := OpenArchive()
	if err != nil {
		fmt.Println("❌", err)
		return subcommands.ExitFailure
	}
	defer closer.Close()

	return download(ctx, a, f.Arg(0))
}

// download writes the full history of symbol and prints the outcome.
func download(ctx context.Context, a *coinhist.Archive, symbol string) subcommands.ExitStatus {
	o, err := a.Download(ctx, symbol)
	switch {
	case errors.Is(err, coinhist.ErrNotFound):
		fmt.Printf("❌ Could not find a CoinGecko ID for symbol: %s\n", symbol)
		return subcommands.ExitFailure
	case errors.Is(err, coinhist.ErrNoData):
		fmt.Printf("⚠️ No price data found for %s.\n", o.Asset.Ticker)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Println("❌", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DownloadMarkdown(o, a.Currency))
	fmt.Printf("✅ Data saved in %s.\n", o.File)
	return subcommands.ExitSuccess
}
