// Package renderer formats run reports as markdown.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/coinhist"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// minFraction is the number of decimals used for prices below one unit.
const minFraction = 8

// Price formats a price in the quote currency, e.g. "$44,946.91".
//
// Prices below one unit keep up to 8 decimals, as many tokens trade well
// below a cent. Unknown currencies fall back to "<amount> <CODE>".
func Price(price decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return price.String() + " " + code
	}
	f := *cur.Formatter()
	if !price.IsZero() && price.Abs().LessThan(decimal.NewFromInt(1)) && f.Fraction < minFraction {
		f.Fraction = minFraction
	}
	return f.Format(price.Shift(int32(f.Fraction)).IntPart())
}

// ReportMarkdown renders the outcome of an update run.
func ReportMarkdown(r *coinhist.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Update of %s", r.Dir))
	doc.PlainTextf("Run `%s` started %s, prices in %s.", r.RunID, r.Started.Format("2006-01-02 15:04:05"), strings.ToUpper(r.Currency))

	if len(r.Outcomes) == 0 {
		doc.PlainText("No history file to update.")
		return doc.String()
	}

	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Status", "Files"},
	}
	for _, s := range coinhist.Statuses {
		if n := r.Count(s); n > 0 {
			summary.Rows = append(summary.Rows, []string{s.String(), fmt.Sprint(n)})
		}
	}
	doc.Table(summary)

	doc.H2("Files")
	doc.Table(outcomeTable(r.Currency, r.Outcomes...))

	var problems []string
	for _, o := range r.Outcomes {
		if o.Err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", o.File, o.Err))
		}
	}
	if len(problems) > 0 {
		doc.H2("Problems")
		doc.BulletList(problems...)
	}
	return doc.String()
}

// DownloadMarkdown renders the outcome of a single download.
func DownloadMarkdown(o coinhist.Outcome, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s (%s)", o.Asset.Name, o.Asset.Ticker))
	doc.Table(outcomeTable(currency, o))
	return doc.String()
}

func outcomeTable(currency string, outcomes ...coinhist.Outcome) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"File", "Asset", "Status", "Window", "Rows", "Last", "Price"},
	}
	for _, o := range outcomes {
		file := o.File
		if o.Renamed != "" {
			file = fmt.Sprintf("%s (was %s)", o.File, o.Renamed)
		}
		var window, rows, last, price string
		if o.Status == coinhist.Updated {
			window = fmt.Sprintf("%s, %s", o.Mode, o.Window)
			rows = fmt.Sprint(o.Rows)
			last = o.Last.String()
			price = Price(o.LastPrice, currency)
		}
		table.Rows = append(table.Rows, []string{file, o.Asset.ID, o.Status.String(), window, rows, last, price})
	}
	return table
}
