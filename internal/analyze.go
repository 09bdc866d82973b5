package internal

import "log/slog"

// AnalysisOptions selects what to compute for a ticker
type AnalysisOptions struct {
	Windows []Window
	Growth  *GrowthConfig
}

// Analyze fits every window and computes the CAGR. Records must be sorted.
// A window that cannot be fit is recorded in FitErrors and the rest still run.
// With no windows, one fit spanning the whole history is computed.
func Analyze(log *slog.Logger, ticker string, records []DividendRecord, opts AnalysisOptions) Report {
	report := Report{
		Ticker:  ticker,
		Records: records,
	}

	windows := opts.Windows
	if len(windows) == 0 && len(records) > 0 {
		windows = []Window{WholeHistory(records)}
	}

	for _, w := range windows {
		selected := FilterWindow(records, w)
		log.Debug("fitting window", "window", w.String(), "from", w.From.Format("2006-01-02"), "to", w.To.Format("2006-01-02"), "records", len(selected))

		fit, err := FitExponential(w, selected)
		if err != nil {
			report.FitErrors = append(report.FitErrors, WindowError{Window: w, Err: err})
			continue
		}
		log.Debug("fitted window", "window", w.String(), "intercept", fit.Intercept, "slope", fit.Slope)
		report.Fits = append(report.Fits, fit)
	}

	if opts.Growth != nil {
		g, err := GrowthBetween(records, opts.Growth.Begin, opts.Growth.End, opts.Growth.Years)
		if err != nil {
			report.GrowthErr = err
		} else {
			report.Growth = &g
		}
	}

	return report
}

// WholeHistory returns a window covering every record. Records must be sorted.
func WholeHistory(records []DividendRecord) Window {
	from := records[0].Date
	to := records[len(records)-1].Date
	return Window{
		Start: from.Format("2006-01-02"),
		End:   to.Format("2006-01-02"),
		From:  from,
		To:    to,
	}
}
