package coinhist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name string
		want FileName
	}{
		{"historic-btc-usd.csv", FileName{Kind: Current, Ticker: "btc", Currency: "usd"}},
		{"historic-BTC-USD.csv", FileName{Kind: Current, Ticker: "btc", Currency: "usd"}},
		{"historic-btc-usd-bitcoin.csv", FileName{Kind: Legacy, Ticker: "btc", Currency: "usd", ID: "bitcoin"}},
		{"historic-shib-usd-shiba-inu.csv", FileName{Kind: Legacy, Ticker: "shib", Currency: "usd", ID: "shiba-inu"}},
		{"historic-btc.csv", FileName{}},
		{"historic-btc-usd.txt", FileName{}},
		{"historic-usdc.e-usd.csv", FileName{Kind: Current, Ticker: "usdc.e", Currency: "usd"}},
		{"historic-usdc.e-usd-bridged-usdc.csv", FileName{Kind: Legacy, Ticker: "usdc.e", Currency: "usd", ID: "bridged-usdc"}},
		{"historic-usd.csv", FileName{}},
		{"historic-b c-usd.csv", FileName{}},
		{"prices-btc-usd.csv", FileName{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilename(tt.name))
		})
	}
}

func TestCanonicalFilename(t *testing.T) {
	assert.Equal(t, "historic-btc-usd.csv", CanonicalFilename("BTC", "USD"))
	assert.Equal(t, "historic-btc-usd.csv", ParseFilename("historic-btc-usd-bitcoin.csv").Canonical())
}

func TestListHistoryFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"historic-btc-usd.csv",
		"historic-eth-usd-ethereum.csv",
		"historic-btc-eur.csv",
		"historic-usd-eur.csv",
		"historic-usd.csv",
		"notes.txt",
	} {
		writeFile(t, dir, name, "")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "historic-dir-usd.csv"), 0755))

	names, err := ListHistoryFiles(dir, "USD")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"historic-btc-usd.csv",
		"historic-eth-usd-ethereum.csv",
		"historic-usd.csv",
	}, names)
}

func TestMigrateLegacy(t *testing.T) {
	dir := t.TempDir()
	content := "\"\"\"Time\"\"\",\"\"\"BTC / Price (USD)\"\"\"\n"
	writeFile(t, dir, "historic-btc-usd-bitcoin.csv", content)

	name, err := MigrateLegacy(dir, "historic-btc-usd-bitcoin.csv")
	require.NoError(t, err)
	assert.Equal(t, "historic-btc-usd.csv", name)
	assert.Equal(t, content, readFile(t, filepath.Join(dir, name)), "content is untouched")
	assert.NoFileExists(t, filepath.Join(dir, "historic-btc-usd-bitcoin.csv"))

	// second rename is a no-op
	again, err := MigrateLegacy(dir, name)
	require.NoError(t, err)
	assert.Equal(t, name, again)
	assert.Equal(t, Current, ParseFilename(again).Kind)
}

func TestMigrateLegacy_Conflict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "historic-btc-usd-bitcoin.csv", "legacy")
	writeFile(t, dir, "historic-btc-usd.csv", "current")

	_, err := MigrateLegacy(dir, "historic-btc-usd-bitcoin.csv")
	assert.ErrorIs(t, err, ErrCanonicalExists)
	assert.Equal(t, "current", readFile(t, filepath.Join(dir, "historic-btc-usd.csv")))
}

func TestMigrateLegacy_Unrecognized(t *testing.T) {
	_, err := MigrateLegacy(t.TempDir(), "historic-usd.csv")
	var ferr *FileFormatError
	assert.ErrorAs(t, err, &ferr)
}
