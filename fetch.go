package coinhist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/coinhist/date"
	"github.com/shopspring/decimal"
)

// PricePoint is the price of an asset for one calendar day.
type PricePoint struct {
	Date  date.Date
	Price decimal.Decimal
}

// Window is the span of history requested from the provider.
//
// The zero Window is not valid; use FullWindow or Since.
type Window struct {
	full  bool      // lookback window, else since window
	days  int       // lookback in days
	since date.Date // first day to fetch
}

// FullWindow requests the last 'days' days, ending now.
func FullWindow(days int) Window { return Window{full: true, days: days} }

// Since requests every price from the start of day d until now.
func Since(d date.Date) Window { return Window{since: d} }

// IsFull reports whether w is a lookback window.
func (w Window) IsFull() bool { return w.full }

// Days returns the lookback of a full window.
func (w Window) Days() int { return w.days }

// Start returns the first day of a Since window.
func (w Window) Start() date.Date { return w.since }

func (w Window) String() string {
	if w.IsFull() {
		return fmt.Sprintf("last %d days", w.days)
	}
	return fmt.Sprintf("since %s", w.since)
}

// Fetcher retrieves daily price series from a Provider.
type Fetcher struct {
	provider Provider
	// Location is used to truncate provider timestamps to days. Defaults to time.Local.
	Location *time.Location
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// NewFetcher returns a Fetcher on p, using local time.
func NewFetcher(p Provider) *Fetcher {
	return &Fetcher{provider: p, Location: time.Local, Now: time.Now}
}

func (f *Fetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Today returns the current day in the Fetcher's location.
func (f *Fetcher) Today() date.Date { return date.Of(f.now(), f.Location) }

// Fetch returns the prices of asset id quoted in currency over w.
//
// Points are returned in provider order, one per tick: several ticks on the
// same day give several points. A failed or empty request is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, id, currency string, w Window) ([]PricePoint, error) {
	var (
		ticks []Tick
		err   error
	)
	switch {
	case w.IsFull():
		ticks, err = f.provider.SeriesByWindow(ctx, id, currency, w.days)
	case w.since.IsZero():
		err = errors.New("invalid window: no start day")
	default:
		ticks, err = f.provider.SeriesByRange(ctx, id, currency, w.since.In(f.Location), f.now())
	}
	if err != nil {
		return nil, &FetchError{AssetID: id, Window: w, Err: err}
	}
	if len(ticks) == 0 {
		return nil, &FetchError{AssetID: id, Window: w, Err: ErrNoData}
	}

	points := make([]PricePoint, 0, len(ticks))
	for _, t := range ticks {
		points = append(points, PricePoint{Date: date.Of(t.Time, f.Location), Price: t.Price})
	}
	return points, nil
}
