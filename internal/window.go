package internal

import (
	"fmt"
	"strings"
	"time"
)

// periodLayouts are the accepted partial date formats, each with the
// granularity it resolves to.
var periodLayouts = []struct {
	layout string
	unit   periodUnit
}{
	{"2006-01-02", unitDay},
	{"2006-01", unitMonth},
	{"Jan 2006", unitMonth},
	{"January 2006", unitMonth},
	{"2006", unitYear},
}

type periodUnit int

const (
	unitDay periodUnit = iota
	unitMonth
	unitYear
)

// ParsePeriod parses a partial date and returns the first and last day it covers.
// Examples: "2021-01-29" -> that day, "Jan 2021" -> 2021-01-01..2021-01-31,
// "1995" -> 1995-01-01..1995-12-31.
func ParsePeriod(s string) (from, to time.Time, err error) {
	s = strings.TrimSpace(s)
	for _, l := range periodLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		switch l.unit {
		case unitDay:
			return t, t, nil
		case unitMonth:
			return t, t.AddDate(0, 1, -1), nil
		default:
			return t, t.AddDate(1, 0, -1), nil
		}
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w %q (use YYYY-MM-DD, YYYY-MM, Mon YYYY or YYYY)", ErrInvalidPeriod, s)
}

// ParseWindow resolves a window from two partial dates. The start snaps to the
// beginning of its period and the end to the last day of its period.
func ParseWindow(start, end string) (Window, error) {
	from, _, err := ParsePeriod(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	_, to, err := ParsePeriod(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	if from.After(to) {
		return Window{}, fmt.Errorf("%w: %s is after %s", ErrInvalidWindow, start, end)
	}
	return Window{
		Start: strings.TrimSpace(start),
		End:   strings.TrimSpace(end),
		From:  from,
		To:    to,
	}, nil
}

// ParseWindowArg parses a "start:end" command line argument, e.g. "Apr 2011:Jan 2021"
func ParseWindowArg(arg string) (Window, error) {
	start, end, ok := strings.Cut(arg, ":")
	if !ok {
		return Window{}, fmt.Errorf("%w %q: expected start:end", ErrInvalidWindow, arg)
	}
	return ParseWindow(start, end)
}

// FilterWindow returns the records whose date falls within the window, in input order.
func FilterWindow(records []DividendRecord, w Window) []DividendRecord {
	var result []DividendRecord
	for _, r := range records {
		if w.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result
}
