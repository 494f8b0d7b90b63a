package coinhist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/coinhist/date"
	"github.com/shopspring/decimal"
)

// fakeProvider is an in-memory Provider recording its calls.
type fakeProvider struct {
	assets    []Asset
	listErr   error
	ticks     map[string][]Tick // by asset id
	seriesErr error

	listCalls   int
	windowCalls []int       // days
	rangeCalls  []time.Time // from
}

func (p *fakeProvider) ListAssets(ctx context.Context) ([]Asset, error) {
	p.listCalls++
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.assets, nil
}

func (p *fakeProvider) SeriesByWindow(ctx context.Context, id, currency string, days int) ([]Tick, error) {
	p.windowCalls = append(p.windowCalls, days)
	return p.ticks[id], p.seriesErr
}

func (p *fakeProvider) SeriesByRange(ctx context.Context, id, currency string, from, to time.Time) ([]Tick, error) {
	p.rangeCalls = append(p.rangeCalls, from)
	return p.ticks[id], p.seriesErr
}

var testAssets = []Asset{
	{ID: "bitcoin", Ticker: "btc", Name: "Bitcoin"},
	{ID: "ethereum", Ticker: "eth", Name: "Ethereum"},
	{ID: "tether", Ticker: "usdt", Name: "Tether"},
}

// noon returns the tick of day d at noon UTC, which is d in every usual time zone.
func noon(d string, price string) Tick {
	return Tick{Time: date.MustParse(d).In(time.UTC).Add(12 * time.Hour), Price: decimal.RequireFromString(price)}
}

// newTestArchive returns an Archive on a temp dir, with a fetcher in UTC whose clock is today.
func newTestArchive(t *testing.T, p Provider, today string) *Archive {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	a := NewArchive(cfg, p)
	a.Fetcher.Location = time.UTC
	a.Fetcher.Now = func() time.Time { return date.MustParse(today).In(time.UTC).Add(18 * time.Hour) }
	return a
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read %s: %v", path, err)
	}
	return string(content)
}
