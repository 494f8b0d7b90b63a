package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/coinhist"
	"github.com/etnz/coinhist/renderer"
	"github.com/google/subcommands"
)

type updateCmd struct{}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "append the latest prices to every history file"
}
func (*updateCmd) Usage() string {
	return `coinhist update

Bring every history file of the data directory up to date, then print a report.
Exits with status 1 when a file could not be read, renamed or written.
`
}
func (c *updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}
	a, closer, err := OpenArchive()
	if err != nil {
		fmt.Println("❌", err)
		return subcommands.ExitFailure
	}
	defer closer.Close()

	return update(ctx, a)
}

// update runs a on the whole data directory and prints the report.
func update(ctx context.Context, a *coinhist.Archive) subcommands.ExitStatus {
	fmt.Printf("\n--- 🔄 Updating history files in %s ---\n", a.Dir)
	report, err := a.Update(ctx)
	if err != nil {
		fmt.Println("❌ update failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReportMarkdown(report))

	if n := report.Count(coinhist.Failed); n > 0 {
		fmt.Printf("❌ %d files could not be updated.\n", n)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ %d files updated.\n", report.Count(coinhist.Updated))
	return subcommands.ExitSuccess
}
