package coinhist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	p := &fakeProvider{assets: testAssets}
	r := NewResolver(NewAssetDirectory(p))

	tests := []struct {
		query string
		want  string // asset id, empty for not found
	}{
		{"btc", "bitcoin"},
		{"BTC", "bitcoin"},
		{"bitcoin", "bitcoin"},
		{"Ethereum", "ethereum"},
		{"  usdt ", "tether"},
		{"bit", ""},
		{"dogecoin", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.query)
			if tt.want == "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotFound)
				var rerr *ResolutionError
				assert.ErrorAs(t, err, &rerr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
	assert.Equal(t, 1, p.listCalls, "asset directory is loaded once")
}

func TestResolver_TickerIsUpperCase(t *testing.T) {
	r := NewResolver(NewAssetDirectory(&fakeProvider{assets: testAssets}))
	got, err := r.Resolve(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, Asset{ID: "bitcoin", Ticker: "BTC", Name: "Bitcoin"}, got)
}

func TestResolver_FirstMatchWins(t *testing.T) {
	// "eth" is the name of the first asset and the symbol of the second.
	p := &fakeProvider{assets: []Asset{
		{ID: "ether-token", Ticker: "etht", Name: "ETH"},
		{ID: "ethereum", Ticker: "eth", Name: "Ethereum"},
	}}
	got, err := NewResolver(NewAssetDirectory(p)).Resolve(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "ether-token", got.ID)
}

func TestResolver_DirectoryFailure(t *testing.T) {
	cause := errors.New("connection refused")
	p := &fakeProvider{listErr: cause}
	r := NewResolver(NewAssetDirectory(p))

	_, err := r.Resolve(context.Background(), "btc")
	assert.ErrorIs(t, err, ErrNotFound, "a directory failure looks like a miss")
	assert.ErrorIs(t, err, cause, "the cause is kept for diagnostics")

	// the failure is not cached
	p.listErr, p.assets = nil, testAssets
	got, err := r.Resolve(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", got.ID)
	assert.Equal(t, 2, p.listCalls)
}

func TestAssetDirectory_Shared(t *testing.T) {
	p := &fakeProvider{assets: testAssets}
	dir := NewAssetDirectory(p)
	r1, r2 := NewResolver(dir), NewResolver(dir)

	_, err := r1.Resolve(context.Background(), "btc")
	require.NoError(t, err)
	_, err = r2.Resolve(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, 1, p.listCalls)
}
