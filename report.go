package coinhist

import (
	"errors"
	"time"

	"github.com/etnz/coinhist/date"
	"github.com/shopspring/decimal"
)

// Status is the final state of one history file after a run.
type Status int

const (
	Updated             Status = iota // new rows were written
	UpToDate                          // nothing left to fetch
	SkippedUnrecognized               // the file name follows no known convention
	SkippedUnresolvable               // the ticker matches no provider asset
	SkippedFetchEmpty                 // the provider failed or returned no price
	SkippedDuplicate                  // a legacy file shadowed by its canonical file
	Failed                            // the file could not be read, renamed or written
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "updated"
	case UpToDate:
		return "up-to-date"
	case SkippedUnrecognized:
		return "unrecognized"
	case SkippedUnresolvable:
		return "unresolvable"
	case SkippedFetchEmpty:
		return "no data"
	case SkippedDuplicate:
		return "duplicate"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Statuses lists all statuses in display order.
var Statuses = []Status{Updated, UpToDate, SkippedUnrecognized, SkippedUnresolvable, SkippedFetchEmpty, SkippedDuplicate, Failed}

// Outcome describes what happened to one history file.
type Outcome struct {
	File      string // file name after any rename
	Renamed   string // legacy name, if the file was renamed
	Asset     Asset
	Status    Status
	Mode      Mode
	Window    Window
	Rows      int       // rows written
	Last      date.Date // latest day written
	LastPrice decimal.Decimal
	Err       error
}

// Report is the result of a run over the data directory.
type Report struct {
	RunID    string
	Dir      string
	Currency string
	Started  time.Time
	Outcomes []Outcome
}

// Count returns the number of outcomes in status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Err joins the errors of all outcomes that carry one.
func (r *Report) Err() error {
	var errs error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = errors.Join(errs, o.Err)
		}
	}
	return errs
}
