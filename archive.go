package coinhist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Archive is a data directory of history files kept in sync with a provider.
//
// Files are processed one at a time, in directory order.
type Archive struct {
	Dir      string // data directory
	Currency string // quote currency, e.g. "usd"
	MaxDays  int    // lookback of a full download
	Resolver *Resolver
	Fetcher  *Fetcher
	RunID    string // tags the next report, a fresh uuid when empty
}

// NewArchive returns an Archive on cfg.Dir using provider p.
// The resolver and fetcher share nothing but p.
func NewArchive(cfg Config, p Provider) *Archive {
	return &Archive{
		Dir:      cfg.DataDir,
		Currency: strings.ToLower(cfg.Currency),
		MaxDays:  cfg.MaxDays,
		Resolver: NewResolver(NewAssetDirectory(p)),
		Fetcher:  NewFetcher(p),
	}
}

func (a *Archive) newReport() *Report {
	id := a.RunID
	if id == "" {
		id = uuid.NewString()
	}
	return &Report{
		RunID:    id,
		Dir:      a.Dir,
		Currency: a.Currency,
		Started:  time.Now(),
	}
}

// Update brings every history file of the data directory up to date.
//
// Per-file failures are logged and recorded in the report; only a failure to
// list the directory or a cancelled context stop the run.
func (a *Archive) Update(ctx context.Context) (*Report, error) {
	report := a.newReport()

	names, err := ListHistoryFiles(a.Dir, a.Currency)
	if err != nil {
		return report, fmt.Errorf("cannot list history files in %s: %w", a.Dir, err)
	}
	if len(names) == 0 {
		log.Printf("no existing historic files found in %s to update", a.Dir)
		return report, nil
	}

	log.Printf("run %s: updating %d files in %s", report.RunID, len(names), a.Dir)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o := a.updateFile(ctx, name)
		logOutcome(o)
		report.Outcomes = append(report.Outcomes, o)
	}
	return report, nil
}

func (a *Archive) updateFile(ctx context.Context, name string) Outcome {
	o := Outcome{File: name}

	f := ParseFilename(name)
	if f.Kind == Unrecognized {
		o.Status = SkippedUnrecognized
		o.Err = &FileFormatError{Path: filepath.Join(a.Dir, name), Err: fmt.Errorf("unexpected file name format")}
		return o
	}
	if f.Kind == Legacy {
		renamed, err := MigrateLegacy(a.Dir, name)
		if errors.Is(err, ErrCanonicalExists) {
			o.Status, o.Err = SkippedDuplicate, err
			return o
		}
		if err != nil {
			o.Status, o.Err = Failed, err
			return o
		}
		o.File, o.Renamed = renamed, name
	}

	asset, err := a.Resolver.Resolve(ctx, f.Ticker)
	if err != nil {
		o.Status, o.Err = SkippedUnresolvable, err
		return o
	}
	o.Asset = asset

	path := filepath.Join(a.Dir, o.File)
	resume, ok, err := LastRecordedDate(path)
	if err != nil {
		o.Status, o.Err = Failed, fmt.Errorf("cannot read %s: %w", o.File, err)
		return o
	}

	if !ok {
		log.Printf("file %s is new or empty, downloading %d days of history instead", o.File, a.MaxDays)
		o.Mode, o.Window = Overwrite, FullWindow(a.MaxDays)
	} else {
		if resume.After(a.Fetcher.Today()) {
			o.Status = UpToDate
			return o
		}
		o.Mode, o.Window = Append, Since(resume)
	}
	return a.fetchAndWrite(ctx, o)
}

// fetchAndWrite fetches o.Window for o.Asset and writes it to o.File in o.Mode.
func (a *Archive) fetchAndWrite(ctx context.Context, o Outcome) Outcome {
	points, err := a.Fetcher.Fetch(ctx, o.Asset.ID, a.Currency, o.Window)
	if err != nil {
		o.Status, o.Err = SkippedFetchEmpty, err
		return o
	}

	history := Collapse(points)
	if o.Mode == Append {
		// The provider may return the end of the previous day: never append a day twice.
		history = history.From(o.Window.Start())
		if history.Len() == 0 {
			o.Status = UpToDate
			return o
		}
	}

	path := filepath.Join(a.Dir, o.File)
	header := Header{Ticker: o.Asset.Ticker, Currency: a.Currency}
	rows := make([]PricePoint, 0, history.Len())
	for on, price := range history.Values() {
		rows = append(rows, PricePoint{Date: on, Price: price})
	}
	if err := WriteHistory(path, header, rows, o.Mode); err != nil {
		o.Status, o.Err = Failed, err
		return o
	}

	o.Status, o.Rows = Updated, len(rows)
	o.Last, o.LastPrice = history.Latest()
	return o
}

// Download resolves query and writes a full window of history to its
// canonical file, replacing any previous content.
//
// A legacy file of the same ticker is renamed first and so replaced. Other
// files are never touched. A query that cannot be resolved returns a
// *ResolutionError and writes nothing. Neither does a ticker that Update could
// not read back from the file name.
func (a *Archive) Download(ctx context.Context, query string) (Outcome, error) {
	asset, err := a.Resolver.Resolve(ctx, query)
	if err != nil {
		return Outcome{Status: SkippedUnresolvable, Err: err}, err
	}

	log.Printf("processing data for %s (id: %s)", asset.Ticker, asset.ID)
	o := Outcome{
		File:   CanonicalFilename(asset.Ticker, a.Currency),
		Asset:  asset,
		Mode:   Overwrite,
		Window: FullWindow(a.MaxDays),
	}
	if f := ParseFilename(o.File); f.Kind != Current || f.Ticker != strings.ToLower(asset.Ticker) {
		o.Status = SkippedUnrecognized
		o.Err = &FileFormatError{Path: filepath.Join(a.Dir, o.File), Err: fmt.Errorf("ticker %q does not fit in a file name", asset.Ticker)}
		logOutcome(o)
		return o, o.Err
	}
	o.Renamed = a.migrateLegacyOf(o.File)
	o = a.fetchAndWrite(ctx, o)
	logOutcome(o)
	return o, o.Err
}

// migrateLegacyOf renames the legacy file whose canonical name is canonical,
// if any, and returns its former name.
func (a *Archive) migrateLegacyOf(canonical string) string {
	names, err := ListHistoryFiles(a.Dir, a.Currency)
	if err != nil {
		log.Printf("warning, cannot list history files in %s: %v", a.Dir, err)
		return ""
	}
	for _, name := range names {
		if f := ParseFilename(name); f.Kind != Legacy || f.Canonical() != canonical {
			continue
		}
		if _, err := MigrateLegacy(a.Dir, name); err != nil {
			log.Printf("warning %s: %v", name, err)
			continue
		}
		return name
	}
	return ""
}

func logOutcome(o Outcome) {
	switch o.Status {
	case Updated:
		log.Printf("%s: %s %d rows (%s), last %s", o.File, o.Mode, o.Rows, o.Window, o.Last)
	case UpToDate:
		log.Printf("%s: already up to date", o.File)
	default:
		log.Printf("warning %s: %s: %v", o.File, o.Status, o.Err)
	}
}
