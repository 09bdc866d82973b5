package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order. Newer exports carry a time and zone offset.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

// ParseYahooCSV reads a Yahoo Finance dividend history export.
// Layout: a header row with Date and Dividends columns (any order), one row per payout.
func ParseYahooCSV(path string) ([]DividendRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadYahooCSV(f)
}

// ReadYahooCSV reads dividend records from CSV data with a Date/Dividends header
func ReadYahooCSV(r io.Reader) ([]DividendRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	dateCol, amountCol := findColumns(header)
	if dateCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("could not find required columns (Date, Dividends) in header %v", header)
	}

	var records []DividendRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		// Skip blank lines
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) <= max(dateCol, amountCol) {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, max(dateCol, amountCol)+1, len(row))
		}

		rec, err := parseRecord(row[dateCol], row[amountCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// findColumns returns the indices of the Date and Dividends columns, or -1
func findColumns(header []string) (dateCol, amountCol int) {
	dateCol, amountCol = -1, -1
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))) {
		case "date":
			dateCol = i
		case "dividends", "dividend":
			amountCol = i
		}
	}
	return dateCol, amountCol
}

func parseRecord(dateStr, amountStr string) (DividendRecord, error) {
	date, err := parseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return DividendRecord{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return DividendRecord{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	return DividendRecord{Date: date, Amount: amount}, nil
}

// parseDate parses a payout date and truncates it to the day in UTC
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: expected YYYY-MM-DD", s)
}
