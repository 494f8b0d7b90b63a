package coinhist

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/coinhist/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(d, price string) PricePoint {
	return PricePoint{Date: date.MustParse(d), Price: decimal.RequireFromString(price)}
}

var btcHeader = Header{Ticker: "BTC", Currency: "usd"}

func TestWriteHistory_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historic-btc-usd.csv")
	points := []PricePoint{
		point("2024-01-02", "44179.92165"),
		point("2024-01-01", "42261.0442186897"),
	}

	require.NoError(t, WriteHistory(path, btcHeader, points, Overwrite))

	want := `"""Time""","""BTC / Price (USD)"""
"""2024-01-01""",42261.0442186897
"""2024-01-02""",44179.92165
`
	assert.Equal(t, want, readFile(t, path))

	// overwriting replaces everything
	require.NoError(t, WriteHistory(path, btcHeader, points[:1], Overwrite))
	assert.Equal(t, 2, strings.Count(readFile(t, path), "\n"))
}

func TestWriteHistory_Append(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "historic-btc-usd.csv", "\"\"\"Time\"\"\",\"\"\"BTC / Price (USD)\"\"\"\n\"\"\"2024-01-01\"\"\",1")

	require.NoError(t, WriteHistory(path, btcHeader, []PricePoint{point("2024-01-03", "3"), point("2024-01-02", "2")}, Append))

	want := `"""Time""","""BTC / Price (USD)"""
"""2024-01-01""",1
"""2024-01-02""",2
"""2024-01-03""",3
`
	assert.Equal(t, want, readFile(t, path), "no header, rows on their own line")
}

func TestWriteHistory_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "historic-btc-usd.csv")
	err := WriteHistory(path, btcHeader, []PricePoint{point("2024-01-01", "1")}, Overwrite)
	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, path, werr.Path)
}

func TestWriteHistory_SortedAndUnique(t *testing.T) {
	first := date.MustParse("2023-01-01")
	var points []PricePoint
	for i := range 100 {
		points = append(points, PricePoint{Date: first.Add(i), Price: decimal.NewFromInt(int64(i))})
	}
	// the same day twice, as the provider does for today
	points = append(points, PricePoint{Date: first.Add(99), Price: decimal.NewFromInt(1000)})
	rand.New(rand.NewSource(1)).Shuffle(len(points)-1, func(i, j int) { points[i], points[j] = points[j], points[i] })

	path := filepath.Join(t.TempDir(), "historic-btc-usd.csv")
	require.NoError(t, WriteHistory(path, btcHeader, points, Overwrite))

	lines := strings.Split(strings.TrimSuffix(readFile(t, path), "\n"), "\n")
	require.Len(t, lines, 101, "header and one row per day")
	var prev date.Date
	for _, line := range lines[1:] {
		on, _, err := parseRow(strings.Split(line, ","))
		require.NoError(t, err)
		assert.True(t, on.After(prev), "%v after %v", on, prev)
		prev = on
	}
	assert.True(t, strings.HasSuffix(lines[100], ",1000"), "last value of a day wins")
}

func TestLastRecordedDate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string // empty when no date
	}{
		{"header only", "\"\"\"Time\"\"\",\"\"\"BTC / Price (USD)\"\"\"\n", ""},
		{"empty", "", ""},
		{"one row", "\"\"\"Time\"\"\",\"\"\"BTC / Price (USD)\"\"\"\n\"\"\"2024-01-01\"\"\",42261.04\n", "2024-01-02"},
		{"trailing blank lines", "\"\"\"2024-01-01\"\"\",1\n\"\"\"2024-01-31\"\"\",2\n\n\n", "2024-02-01"},
		{"unsorted", "\"\"\"2024-03-01\"\"\",1\n\"\"\"2024-01-31\"\"\",2\n", "2024-03-02"},
		{"garbage last line", "\"\"\"2024-01-01\"\"\",1\nnot a row\n", "2024-01-02"},
		{"only garbage", "hello\nworld\n", ""},
		{"plain csv quoting", "\"Time\",\"Price\"\n\"2024-12-31\",1\n", "2025-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "f.csv", tt.content)
			got, ok, err := LastRecordedDate(path)
			require.NoError(t, err)
			if tt.want == "" {
				assert.False(t, ok, "LastRecordedDate() = %v", got)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLastRecordedDate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historic-eth-usd.csv")
	points := []PricePoint{point("2024-05-03", "3"), point("2024-06-30", "1"), point("2024-05-01", "2")}
	require.NoError(t, WriteHistory(path, Header{Ticker: "ETH", Currency: "usd"}, points, Overwrite))

	got, ok, err := LastRecordedDate(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date.MustParse("2024-07-01"), got, "max date plus one day")
}

func TestLastRecordedDate_Missing(t *testing.T) {
	_, _, err := LastRecordedDate(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
