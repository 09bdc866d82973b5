package internal

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const daysPerYear = 365.25

// Fit is an exponential trend over one window: ln(amount) = Intercept + Slope*days,
// with days counted from Origin.
type Fit struct {
	Window    Window
	Origin    time.Time
	Intercept float64
	Slope     float64
	Curve     []CurvePoint
}

// FitExponential fits amount = exp(a) * exp(b*days) to the records by ordinary
// least squares on the log of the amounts. Records must be sorted by date.
// The returned curve has one point per record.
func FitExponential(w Window, records []DividendRecord) (Fit, error) {
	if len(records) < 2 {
		return Fit{}, fmt.Errorf("window %s has %d record(s): %w", w, len(records), ErrTooFewRecords)
	}

	origin := records[0].Date
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		if !r.Amount.IsPositive() {
			return Fit{}, fmt.Errorf("window %s, %s: %s: %w", w, r.Date.Format("2006-01-02"), r.Amount, ErrNonPositiveAmount)
		}
		xs[i] = daysBetween(origin, r.Date)
		ys[i] = math.Log(r.Float())
	}

	if stat.Variance(xs, nil) == 0 {
		return Fit{}, fmt.Errorf("window %s: %w", w, ErrDegenerateWindow)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	fit := Fit{
		Window:    w,
		Origin:    origin,
		Intercept: intercept,
		Slope:     slope,
		Curve:     make([]CurvePoint, len(records)),
	}
	for i, r := range records {
		fit.Curve[i] = CurvePoint{Date: r.Date, Amount: fit.Predict(xs[i])}
	}
	return fit, nil
}

// Predict returns the fitted amount the given number of days after Origin
func (f Fit) Predict(days float64) float64 {
	return math.Exp(f.Intercept + f.Slope*days)
}

// At returns the fitted amount on a date. Dates outside the window extrapolate.
func (f Fit) At(t time.Time) float64 {
	return f.Predict(daysBetween(f.Origin, t))
}

// AnnualGrowth is the yearly growth rate implied by the slope
func (f Fit) AnnualGrowth() float64 {
	return math.Exp(f.Slope*daysPerYear) - 1
}

// Equation returns the closed form of the fit, X being days since Origin
func (f Fit) Equation() string {
	return fmt.Sprintf("Y = %.6g * exp(%.6g * X)", math.Exp(f.Intercept), f.Slope)
}

func daysBetween(from, to time.Time) float64 {
	return math.Round(to.Sub(from).Hours() / 24)
}
