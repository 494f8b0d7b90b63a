// Package coingecko implements a coinhist.Provider on top of the CoinGecko
// public API (https://docs.coingecko.com/).
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/coinhist"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	PublicURL = "https://api.coingecko.com/api/v3"
	ProURL    = "https://pro-api.coingecko.com/api/v3"

	demoKeyHeader = "x-cg-demo-api-key"
	proKeyHeader  = "x-cg-pro-api-key"
)

// Client is a CoinGecko API client.
//
// Requests are throttled by a rate limiter. The asset list is cached on disk
// for the day; price series are never cached.
type Client struct {
	baseURL   string
	apiKey    string
	keyHeader string
	series    *http.Client
	listing   *http.Client
	limiter   *rate.Limiter
}

var _ coinhist.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root, e.g. PublicURL.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithAPIKey authenticates requests with a demo key, or a pro key when pro is
// set. Pro keys also switch the base URL to ProURL.
func WithAPIKey(key string, pro bool) Option {
	return func(c *Client) {
		c.apiKey = key
		c.keyHeader = demoKeyHeader
		if pro {
			c.keyHeader = proKeyHeader
			c.baseURL = ProURL
		}
	}
}

// WithHTTPClient uses hc for every request, bypassing the disk cache.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.series, c.listing = hc, hc }
}

// WithTimeout sets the timeout of each request.
// Clients given to WithHTTPClient are copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		series, listing := *c.series, *c.listing
		series.Timeout, listing.Timeout = d, d
		c.series, c.listing = &series, &listing
	}
}

// WithRateLimit allows at most perMinute requests per minute. Zero disables throttling.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// New returns a Client on the public API.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: PublicURL,
		series:  new(http.Client),
		listing: &http.Client{Transport: &diskCache{base: http.DefaultTransport}},
	}
	WithRateLimit(coinhist.DefaultRequestsPerMinute)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig returns a Client configured from cfg.
func NewFromConfig(cfg coinhist.Config) *Client {
	opts := []Option{WithRateLimit(cfg.RequestsPerMinute)}
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey, cfg.Pro))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	return New(opts...)
}

// get waits for the rate limiter then GETs path?query into data.
func (c *Client) get(ctx context.Context, client *http.Client, path string, query url.Values, data any) error {
	addr := c.baseURL + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return jwget(client, req, data)
}

// ListAssets returns all coins known by CoinGecko.
func (c *Client) ListAssets(ctx context.Context) ([]coinhist.Asset, error) {
	// https://api.coingecko.com/api/v3/coins/list
	// [
	//   {
	//     "id": "bitcoin",
	//     "symbol": "btc",
	//     "name": "Bitcoin"
	//   },
	type Info struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}

	var content []Info
	if err := c.get(ctx, c.listing, "/coins/list", nil, &content); err != nil {
		return nil, err
	}
	assets := make([]coinhist.Asset, 0, len(content))
	for _, info := range content {
		assets = append(assets, coinhist.Asset{ID: info.ID, Ticker: info.Symbol, Name: info.Name})
	}
	return assets, nil
}

// SeriesByWindow returns the prices of the last 'days' days.
//
// CoinGecko picks the granularity from the window: above 90 days there is one
// price per day at 00:00 UTC, plus the latest price.
func (c *Client) SeriesByWindow(ctx context.Context, id, currency string, days int) ([]coinhist.Tick, error) {
	query := url.Values{
		"vs_currency": {currency},
		"days":        {strconv.Itoa(days)},
	}
	return c.marketChart(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", query)
}

// SeriesByRange returns the prices between from and to.
func (c *Client) SeriesByRange(ctx context.Context, id, currency string, from, to time.Time) ([]coinhist.Tick, error) {
	query := url.Values{
		"vs_currency": {currency},
		"from":        {strconv.FormatInt(from.Unix(), 10)},
		"to":          {strconv.FormatInt(to.Unix(), 10)},
	}
	return c.marketChart(ctx, "/coins/"+url.PathEscape(id)+"/market_chart/range", query)
}

func (c *Client) marketChart(ctx context.Context, path string, query url.Values) ([]coinhist.Tick, error) {
	// {
	//   "prices": [
	//     [1704067200000, 42261.0442186897],
	//     ...
	//   ],
	//   "market_caps": [...],
	//   "total_volumes": [...]
	// }
	var content any
	if err := c.get(ctx, c.series, path, query, &content); err != nil {
		return nil, err
	}
	return parsePrices(content)
}

// parsePrices extracts the [timestamp ms, price] pairs of a market chart.
func parsePrices(content any) ([]coinhist.Tick, error) {
	jval, err := jsonpath.Get("$.prices", content)
	if err != nil {
		return nil, fmt.Errorf("cannot read prices: %w", err)
	}
	rows, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot read prices: not a list: %T", jval)
	}

	ticks := make([]coinhist.Tick, 0, len(rows))
	for i, row := range rows {
		pair, ok := row.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("price #%d: want a [timestamp, price] pair got %v", i, row)
		}
		if pair[1] == nil {
			continue // no price for that instant
		}
		ms, err := number(pair[0])
		if err != nil {
			return nil, fmt.Errorf("price #%d: invalid timestamp: %w", i, err)
		}
		price, err := number(pair[1])
		if err != nil {
			return nil, fmt.Errorf("price #%d: invalid price: %w", i, err)
		}
		ticks = append(ticks, coinhist.Tick{Time: time.UnixMilli(ms.IntPart()), Price: price})
	}
	return ticks, nil
}

func number(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
	}
}
