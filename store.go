package coinhist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/etnz/coinhist/date"
	"github.com/shopspring/decimal"
)

// History files are plain CSV where every text field carries a pair of
// literal quotes, so that, once encoded, a field reads """value""". Prices
// are written as bare numbers:
//
//	"""Time""","""BTC / Price (USD)"""
//	"""2024-01-01""",42283.58

// Mode selects how WriteHistory opens the file.
type Mode int

const (
	Overwrite Mode = iota // truncate, write the header then all rows
	Append                // add rows at the end, no header
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "overwrite"
}

// Header describes the column titles of a history file.
type Header struct {
	Ticker   string
	Currency string
}

// Columns returns the column titles.
func (h Header) Columns() []string {
	return []string{"Time", fmt.Sprintf("%s / Price (%s)", strings.ToUpper(h.Ticker), strings.ToUpper(h.Currency))}
}

// quote wraps v in the literal quotes of the file format.
func quote(v string) string { return `"` + v + `"` }

// unquote removes the literal quotes added by quote.
func unquote(v string) string { return strings.Trim(strings.TrimSpace(v), `"`) }

// ReadHistory reads all the price rows of the history file at path.
//
// The header and rows that cannot be parsed are skipped (and logged). When
// the same day appears twice, the last row wins.
func ReadHistory(path string) (*date.History[decimal.Decimal], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeHistory(path, f)
}

func decodeHistory(path string, r io.Reader) (*date.History[decimal.Decimal], error) {
	h := new(date.History[decimal.Decimal])

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row shape is checked below
	cr.ReuseRecord = true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Println("warning", &FileFormatError{Path: path, Line: perr.Line, Err: err})
			continue
		}
		if err != nil {
			return nil, err
		}

		on, price, err := parseRow(record)
		if errors.Is(err, errHeaderRow) {
			continue
		}
		if err != nil {
			line, _ := cr.FieldPos(0)
			log.Println("warning", &FileFormatError{Path: path, Line: line, Err: err})
			continue
		}
		h.Append(on, price)
	}
	return h, nil
}

var errHeaderRow = errors.New("header row")

func parseRow(record []string) (date.Date, decimal.Decimal, error) {
	if len(record) != 2 {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("want 2 fields got %d", len(record))
	}
	day := unquote(record[0])
	if day == "Time" {
		return date.Date{}, decimal.Decimal{}, errHeaderRow
	}
	on, err := date.Parse(day)
	if err != nil {
		return date.Date{}, decimal.Decimal{}, err
	}
	price, err := decimal.NewFromString(unquote(record[1]))
	if err != nil {
		return date.Date{}, decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", record[1], err)
	}
	return on, price, nil
}

// LastRecordedDate returns the day after the latest row of the history file
// at path: the first day still missing from the file. It returns false when
// the file holds no valid row.
func LastRecordedDate(path string) (date.Date, bool, error) {
	h, err := ReadHistory(path)
	if err != nil {
		return date.Date{}, false, err
	}
	if h.Len() == 0 {
		return date.Date{}, false, nil
	}
	last, _ := h.Latest()
	return last.Add(1), true, nil
}

// Collapse sorts points by day. For days with several points, the last one wins.
func Collapse(points []PricePoint) *date.History[decimal.Decimal] {
	h := new(date.History[decimal.Decimal])
	for _, p := range points {
		h.Append(p.Date, p.Price)
	}
	return h
}

// WriteHistory writes points to the history file at path, sorted by day.
//
// In Overwrite mode the file is truncated and starts with the header row. In
// Append mode only rows are written and existing rows are not inspected.
// Failures are *WriteError.
func WriteHistory(path string, header Header, points []PricePoint, mode Mode) (err error) {
	var f *os.File
	switch mode {
	case Append:
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
		if err == nil {
			err = terminateLastLine(f)
		}
	default:
		f, err = os.Create(path)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	if err := encodeHistory(f, header, Collapse(points), mode == Overwrite); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func encodeHistory(w io.Writer, header Header, h *date.History[decimal.Decimal], withHeader bool) error {
	cw := csv.NewWriter(w)
	if withHeader {
		cols := header.Columns()
		if err := cw.Write([]string{quote(cols[0]), quote(cols[1])}); err != nil {
			return err
		}
	}
	for on, price := range h.Values() {
		if err := cw.Write([]string{quote(on.String()), price.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// terminateLastLine makes sure appended rows start on a new line.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}
