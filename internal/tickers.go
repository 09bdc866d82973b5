package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// ListTickers returns the ticker symbols with a data file in dir, sorted.
// A file named TD.TO.csv yields the ticker TD.TO when ext is ".csv".
// The extension match is case sensitive, as TickerPath rebuilds names with ext.
func ListTickers(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	var tickers []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ticker, ok := strings.CutSuffix(name, ext)
		if !ok {
			continue
		}
		if ticker == "" {
			continue
		}
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// ValidateTicker returns an error wrapping ErrUnknownTicker if dir has no data file
// for the ticker.
func ValidateTicker(dir, ext, ticker string) error {
	tickers, err := ListTickers(dir, ext)
	if err != nil {
		return err
	}
	if slices.Contains(tickers, ticker) {
		return nil
	}
	if len(tickers) == 0 {
		return fmt.Errorf("%w: %q (no %s files in %s)", ErrUnknownTicker, ticker, ext, dir)
	}
	return fmt.Errorf("%w: %q (available: %s)", ErrUnknownTicker, ticker, strings.Join(tickers, ", "))
}

// TickerPath returns the data file path for a ticker
func TickerPath(dir, ext, ticker string) string {
	return filepath.Join(dir, ticker+ext)
}
