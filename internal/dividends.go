package internal

import "sort"

// SortByDate returns a copy of the records sorted by date, oldest first.
// Yahoo Finance exports arrive unsorted.
func SortByDate(records []DividendRecord) []DividendRecord {
	sorted := make([]DividendRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Summarize describes the records. Records must be sorted.
func Summarize(records []DividendRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	s := Summary{
		Count:     len(records),
		FirstDate: records[0].Date,
		LastDate:  records[len(records)-1].Date,
		MinAmount: records[0].Amount,
		MaxAmount: records[0].Amount,
		Latest:    records[len(records)-1].Amount,
	}
	for _, r := range records[1:] {
		if r.Amount.LessThan(s.MinAmount) {
			s.MinAmount = r.Amount
		}
		if r.Amount.GreaterThan(s.MaxAmount) {
			s.MaxAmount = r.Amount
		}
	}
	return s
}

// Head returns at most n records from the start of the series
func Head(records []DividendRecord, n int) []DividendRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
