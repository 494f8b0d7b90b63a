package coinhist

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reported when no asset matches a query.
	ErrNotFound = errors.New("asset not found")
	// ErrNoData is reported when the provider returns an empty series.
	ErrNoData = errors.New("no price data")
)

// ResolutionError reports that a query could not be resolved to an asset.
//
// It always matches ErrNotFound, whatever the underlying cause: a failure to
// load the asset directory and a missing match are handled the same way.
type ResolutionError struct {
	Query string
	Err   error // cause, for diagnostics only
}

func (e *ResolutionError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrNotFound) {
		return fmt.Sprintf("cannot resolve %q: %v", e.Query, ErrNotFound)
	}
	return fmt.Sprintf("cannot resolve %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// FetchError reports a failed or empty series request.
type FetchError struct {
	AssetID string
	Window  Window
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cannot fetch %s for %s: %v", e.Window, e.AssetID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FileFormatError reports a file whose name or content is not recognized.
// Line is 0 when the error is about the file name.
type FileFormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FileFormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

// WriteError reports an I/O failure while persisting a history file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }
