package coinhist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tracked cryptocurrency as known by the provider.
type Asset struct {
	ID     string // canonical provider id, e.g. "bitcoin"
	Ticker string // display symbol, e.g. "BTC"
	Name   string // display name, e.g. "Bitcoin"
}

// Tick is a raw price sample returned by the provider.
type Tick struct {
	Time  time.Time
	Price decimal.Decimal
}

// Provider is the remote market-data service.
//
// HTTP, authentication and rate limits are the implementation's concern.
type Provider interface {
	// ListAssets returns every asset known by the provider, in provider order.
	ListAssets(ctx context.Context) ([]Asset, error)
	// SeriesByWindow returns the prices of the last 'days' days up to now.
	SeriesByWindow(ctx context.Context, id, currency string, days int) ([]Tick, error)
	// SeriesByRange returns the prices between from and to.
	SeriesByRange(ctx context.Context, id, currency string, from, to time.Time) ([]Tick, error)
}

// AssetDirectory is the provider's asset list, loaded on first use and kept
// for the lifetime of the directory.
type AssetDirectory struct {
	provider Provider
	assets   []Asset
	loaded   bool
}

// NewAssetDirectory returns an empty directory backed by p.
func NewAssetDirectory(p Provider) *AssetDirectory {
	return &AssetDirectory{provider: p}
}

// Assets returns the provider's asset list, loading it if needed.
// A failed load is not remembered: the next call tries again.
func (d *AssetDirectory) Assets(ctx context.Context) ([]Asset, error) {
	if d.loaded {
		return d.assets, nil
	}
	assets, err := d.provider.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list assets: %w", err)
	}
	log.Printf("asset directory loaded: %d assets", len(assets))
	d.assets, d.loaded = assets, true
	return d.assets, nil
}

// Resolver maps a user query to an Asset.
type Resolver struct {
	dir *AssetDirectory
}

// NewResolver returns a Resolver reading from dir. Resolvers can share a directory.
func NewResolver(dir *AssetDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the first asset whose symbol, id or name equals query,
// ignoring case. The returned Ticker is upper case.
//
// Any failure is a *ResolutionError matching ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, query string) (Asset, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Asset{}, &ResolutionError{Query: query}
	}

	assets, err := r.dir.Assets(ctx)
	if err != nil {
		log.Printf("cannot resolve %q: %v", query, err)
		return Asset{}, &ResolutionError{Query: query, Err: err}
	}

	for _, a := range assets {
		if strings.ToLower(a.Ticker) == q || strings.ToLower(a.ID) == q || strings.ToLower(a.Name) == q {
			a.Ticker = strings.ToUpper(a.Ticker)
			return a, nil
		}
	}
	return Asset{}, &ResolutionError{Query: query}
}
