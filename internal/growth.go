package internal

import (
	"fmt"
	"math"
)

// CAGR returns the compound annual growth rate turning begin into end over years.
func CAGR(begin, end, years float64) (float64, error) {
	if begin <= 0 {
		return 0, fmt.Errorf("cagr(%g, %g, %g): %w", begin, end, years, ErrNonPositiveBegin)
	}
	if years == 0 {
		return 0, fmt.Errorf("cagr(%g, %g, %g): %w", begin, end, years, ErrZeroYears)
	}
	rate := math.Pow(end/begin, 1/years) - 1
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("cagr(%g, %g, %g): %w", begin, end, years, ErrUndefinedGrowth)
	}
	return rate, nil
}

// GrowthBetween computes the CAGR between the first payout in beginPeriod and the
// first payout in endPeriod. Periods are partial dates as accepted by ParsePeriod.
// If years is zero it is derived from the dates of the two payouts.
func GrowthBetween(records []DividendRecord, beginPeriod, endPeriod string, years float64) (Growth, error) {
	begin, err := firstInPeriod(records, beginPeriod)
	if err != nil {
		return Growth{}, err
	}
	end, err := firstInPeriod(records, endPeriod)
	if err != nil {
		return Growth{}, err
	}

	if years == 0 {
		years = daysBetween(begin.Date, end.Date) / daysPerYear
	}

	rate, err := CAGR(begin.Float(), end.Float(), years)
	if err != nil {
		return Growth{}, err
	}

	return Growth{
		Begin: begin,
		End:   end,
		Years: years,
		Rate:  rate,
	}, nil
}

// firstInPeriod returns the earliest record within the period. Records must be sorted.
func firstInPeriod(records []DividendRecord, period string) (DividendRecord, error) {
	from, to, err := ParsePeriod(period)
	if err != nil {
		return DividendRecord{}, err
	}
	w := Window{From: from, To: to}
	for _, r := range records {
		if w.Contains(r.Date) {
			return r, nil
		}
	}
	return DividendRecord{}, fmt.Errorf("%w %q", ErrNoRecordInPeriod, period)
}
