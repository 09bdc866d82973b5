package internal

import "errors"

// Numeric domain errors. The fitting and growth computations return these
// instead of letting NaN or -Inf reach the output.
var (
	// ErrTooFewRecords indicates a window with fewer than two records
	ErrTooFewRecords = errors.New("at least 2 records are required for a fit")

	// ErrNonPositiveAmount indicates a zero or negative dividend, which has no logarithm
	ErrNonPositiveAmount = errors.New("dividend amount must be positive")

	// ErrDegenerateWindow indicates all records share one date, so the slope is undefined
	ErrDegenerateWindow = errors.New("records span zero days")

	ErrNonPositiveBegin = errors.New("begin value must be positive")
	ErrZeroYears        = errors.New("number of years must not be zero")
	ErrUndefinedGrowth  = errors.New("growth rate is undefined for these values")
)

// Input errors
var (
	// ErrUnknownTicker indicates no data file exists for the requested ticker
	ErrUnknownTicker = errors.New("ticker symbol not available")

	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrNoRecordInPeriod = errors.New("no dividend record in period")
)
