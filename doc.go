// Package coinhist keeps local, human-readable histories of daily
// cryptocurrency prices.
//
// Each tracked asset lives in its own delimited text file inside a data
// directory. The package knows how to:
//   - Resolve a user supplied symbol, id or name to a provider asset, using an
//     asset directory loaded once and kept in memory.
//   - Fetch a bounded series of daily prices from the provider, either the full
//     lookback window or everything since a given day.
//   - Read and write history files, including the legacy file naming scheme.
//   - Reconcile every file of the data directory with the provider by resuming
//     from the last recorded day.
//
// This package is the foundation of the `coinhist` command-line tool; the
// provider itself is plugged in through the Provider interface (see package
// coingecko).
package coinhist
