package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
)

type allCmd struct {
	in io.Reader // answers to the prompt
}

func (*allCmd) Name() string     { return "all" }
func (*allCmd) Synopsis() string { return "update every file, then download a new asset" }
func (*allCmd) Usage() string {
	return `coinhist all

Run "coinhist update", then prompt for a symbol to download as "coinhist new"
does. An empty answer ends the command.
`
}
func (c *allCmd) SetFlags(f *flag.FlagSet) {}

func (c *allCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	status := update(ctx, a)
	if ctx.Err() != nil {
		return subcommands.ExitFailure
	}

	fmt.Printf("\nEnter a new crypto symbol to download (limited to %d days), or press Enter to finish: ", a.MaxDays)
	symbol := readLine(c.in)
	if symbol == "" {
		return status
	}
	if s := download(ctx, a, symbol); s != subcommands.ExitSuccess {
		return s
	}
	return status
}

// readLine returns the first line of r, trimmed.
func readLine(r io.Reader) string {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		return ""
	}
	return strings.TrimSpace(s.Text())
}
