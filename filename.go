package coinhist

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extension of history files.
const Extension = ".csv"

// NameKind tells which naming convention a file name follows.
type NameKind int

const (
	Unrecognized NameKind = iota
	Current               // historic-<ticker>-<currency>.csv
	Legacy                // historic-<ticker>-<currency>-<id>.csv
)

func (k NameKind) String() string {
	switch k {
	case Current:
		return "current"
	case Legacy:
		return "legacy"
	default:
		return "unrecognized"
	}
}

var (
	currentName = regexp.MustCompile(`^historic-([^-/\\\s]+)-([a-zA-Z]+)\.csv$`)
	legacyName  = regexp.MustCompile(`^historic-([^-/\\\s]+)-([a-zA-Z]+)-([a-zA-Z0-9-]+)\.csv$`)
)

// FileName is the metadata encoded in a history file name.
type FileName struct {
	Kind     NameKind
	Ticker   string // lower case
	Currency string // lower case
	ID       string // Legacy only
}

// Canonical returns the current-convention name for f.
func (f FileName) Canonical() string { return CanonicalFilename(f.Ticker, f.Currency) }

// ParseFilename classifies a base file name.
func ParseFilename(name string) FileName {
	if m := currentName.FindStringSubmatch(name); m != nil {
		return FileName{Kind: Current, Ticker: strings.ToLower(m[1]), Currency: strings.ToLower(m[2])}
	}
	if m := legacyName.FindStringSubmatch(name); m != nil {
		return FileName{Kind: Legacy, Ticker: strings.ToLower(m[1]), Currency: strings.ToLower(m[2]), ID: strings.ToLower(m[3])}
	}
	return FileName{Kind: Unrecognized}
}

// CanonicalFilename returns the name of the history file of ticker quoted in currency.
func CanonicalFilename(ticker, currency string) string {
	return fmt.Sprintf("historic-%s-%s%s", strings.ToLower(ticker), strings.ToLower(currency), Extension)
}

// ListHistoryFiles returns the base names in dir that look like history files
// for currency, in directory order.
//
// Names following a known convention are kept only when they are quoted in
// currency. Other "historic-*.csv" names mentioning the currency are kept too,
// so that callers can report them as unrecognized.
func ListHistoryFiles(dir, currency string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	currency = strings.ToLower(currency)
	marker := "-" + currency

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, "historic-") || !strings.HasSuffix(lower, Extension) {
			continue
		}
		if f := ParseFilename(name); f.Kind != Unrecognized {
			if f.Currency == currency {
				names = append(names, name)
			}
			continue
		}
		if rest := strings.TrimSuffix(lower, Extension); strings.HasSuffix(rest, marker) || strings.Contains(rest, marker+"-") {
			names = append(names, name)
		}
	}
	return names, nil
}

// ErrCanonicalExists is reported when a legacy file cannot be renamed because
// its canonical name is already taken.
var ErrCanonicalExists = errors.New("canonical file already exists")

// MigrateLegacy renames the legacy file 'name' in dir to its canonical name
// and returns the new name. Current names are returned unchanged.
func MigrateLegacy(dir, name string) (string, error) {
	f := ParseFilename(name)
	switch f.Kind {
	case Current:
		return name, nil
	case Unrecognized:
		return name, &FileFormatError{Path: filepath.Join(dir, name), Err: errors.New("unexpected file name format")}
	}

	target := f.Canonical()
	src, dst := filepath.Join(dir, name), filepath.Join(dir, target)
	if _, err := os.Stat(dst); err == nil {
		return name, fmt.Errorf("cannot rename %s: %w: %s", name, ErrCanonicalExists, target)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return name, err
	}
	if err := os.Rename(src, dst); err != nil {
		return name, fmt.Errorf("cannot rename %s: %w", name, err)
	}
	log.Printf("renamed legacy file %s to %s", name, target)
	return target, nil
}
