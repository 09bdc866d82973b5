package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendRecord is a single per-share dividend payout
type DividendRecord struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Float returns the amount as a float64 for numeric work
func (r DividendRecord) Float() float64 {
	return r.Amount.InexactFloat64()
}

// Window is a closed date interval selecting records for a trend fit.
// Start and End keep the bounds as written by the user (e.g. "Apr 2011").
type Window struct {
	Start string
	End   string
	From  time.Time
	To    time.Time
}

func (w Window) String() string {
	return w.Start + " to " + w.End
}

// Contains returns true if t falls within the window (boundaries included)
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// CurvePoint is one fitted value aligned with an input record
type CurvePoint struct {
	Date   time.Time
	Amount float64
}

// Growth is a CAGR computed between two observed payouts
type Growth struct {
	Begin DividendRecord
	End   DividendRecord
	Years float64
	Rate  float64
}

// Summary describes a loaded dividend series
type Summary struct {
	Count     int
	FirstDate time.Time
	LastDate  time.Time
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Latest    decimal.Decimal
}
