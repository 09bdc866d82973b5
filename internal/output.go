package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report is everything computed for one ticker
type Report struct {
	Ticker    string
	Records   []DividendRecord
	Fits      []Fit
	FitErrors []WindowError
	Growth    *Growth
	GrowthErr error
	Currency  Currency
	Verbose   bool // adds the fit equations
}

// WindowError records a window that could not be fit
type WindowError struct {
	Window Window
	Err    error
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Ticker  string      `json:"ticker"`
	Summary JSONSummary `json:"summary"`
	Fits    []JSONFit   `json:"fits"`
	Growth  *JSONGrowth `json:"cagr,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// JSONSummary describes the loaded series
type JSONSummary struct {
	Count     int    `json:"count"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
	MinAmount string `json:"min_amount"`
	MaxAmount string `json:"max_amount"`
	Latest    string `json:"latest_amount"`
	Currency  string `json:"currency"`
}

// JSONFit is one window's exponential trend
type JSONFit struct {
	Name         string         `json:"name"`
	Start        string         `json:"start"`
	End          string         `json:"end"`
	Records      int            `json:"records"`
	Intercept    float64        `json:"intercept"`
	Slope        float64        `json:"slope"`
	AnnualGrowth float64        `json:"annual_growth"`
	Equation     string         `json:"equation"`
	Curve        []JSONFitPoint `json:"curve"`
}

type JSONFitPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// JSONGrowth is the CAGR between two payouts
type JSONGrowth struct {
	BeginDate   string  `json:"begin_date"`
	BeginAmount string  `json:"begin_amount"`
	EndDate     string  `json:"end_date"`
	EndAmount   string  `json:"end_amount"`
	Years       float64 `json:"years"`
	Rate        float64 `json:"rate"`
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, r Report) error {
	s := Summarize(r.Records)
	output := JSONOutput{
		Ticker: r.Ticker,
		Summary: JSONSummary{
			Count:     s.Count,
			MinAmount: s.MinAmount.String(),
			MaxAmount: s.MaxAmount.String(),
			Latest:    s.Latest.String(),
			Currency:  r.Currency.Code,
		},
		Fits: []JSONFit{},
	}
	if s.Count > 0 {
		output.Summary.FirstDate = s.FirstDate.Format("2006-01-02")
		output.Summary.LastDate = s.LastDate.Format("2006-01-02")
	}

	for i, f := range r.Fits {
		jf := JSONFit{
			Name:         fmt.Sprintf("fit%d", i),
			Start:        f.Window.Start,
			End:          f.Window.End,
			Records:      len(f.Curve),
			Intercept:    f.Intercept,
			Slope:        f.Slope,
			AnnualGrowth: f.AnnualGrowth(),
			Equation:     f.Equation(),
		}
		for _, p := range f.Curve {
			jf.Curve = append(jf.Curve, JSONFitPoint{Date: p.Date.Format("2006-01-02"), Amount: p.Amount})
		}
		output.Fits = append(output.Fits, jf)
	}

	if r.Growth != nil {
		output.Growth = &JSONGrowth{
			BeginDate:   r.Growth.Begin.Date.Format("2006-01-02"),
			BeginAmount: r.Growth.Begin.Amount.String(),
			EndDate:     r.Growth.End.Date.Format("2006-01-02"),
			EndAmount:   r.Growth.End.Amount.String(),
			Years:       r.Growth.Years,
			Rate:        r.Growth.Rate,
		}
	}

	for _, we := range r.FitErrors {
		output.Errors = append(output.Errors, we.Err.Error())
	}
	if r.GrowthErr != nil {
		output.Errors = append(output.Errors, r.GrowthErr.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintSummary prints the size and range of the series and its first rows
func PrintSummary(w io.Writer, ticker string, records []DividendRecord, cur Currency) {
	s := Summarize(records)
	fmt.Fprintf(w, "Loaded %d dividend records for %s\n", s.Count, ticker)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "Data range: %s to %s\n", s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Amounts: %s to %s (latest %s)\n\n",
		cur.Format(s.MinAmount.InexactFloat64()),
		cur.Format(s.MaxAmount.InexactFloat64()),
		cur.Format(s.Latest.InexactFloat64()))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Dividends"})
	for _, r := range Head(records, 5) {
		t.AppendRow(table.Row{r.Date.Format("2006-01-02"), r.Amount.String()})
	}
	if s.Count > 5 {
		t.AppendFooter(table.Row{"", fmt.Sprintf("... %d more", s.Count-5)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

// PrintFitsTable outputs one row per trend window, including windows that failed
func PrintFitsTable(w io.Writer, r Report) {
	if len(r.Fits) == 0 && len(r.FitErrors) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Fit", "Window", "Records", "Start", "End", "Annual Growth"}
	if r.Verbose {
		header = append(header, "Equation")
	}
	t.AppendHeader(header)

	for i, f := range r.Fits {
		first := f.Curve[0]
		last := f.Curve[len(f.Curve)-1]
		growth := f.AnnualGrowth()
		growthStr := text.FgGreen.Sprint(formatPercent(growth))
		if growth < 0 {
			growthStr = text.FgRed.Sprint(formatPercent(growth))
		}
		row := table.Row{
			fmt.Sprintf("fit%d", i),
			f.Window.String(),
			len(f.Curve),
			r.Currency.Format(first.Amount),
			r.Currency.Format(last.Amount),
			growthStr,
		}
		if r.Verbose {
			row = append(row, f.Equation())
		}
		t.AppendRow(row)
	}

	for _, we := range r.FitErrors {
		row := table.Row{"-", we.Window.String(), "-", "-", "-", text.FgHiBlack.Sprint("n/a")}
		if r.Verbose {
			row = append(row, text.FgRed.Sprint(we.Err.Error()))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

// PrintGrowth prints the CAGR line
func PrintGrowth(w io.Writer, g Growth, cur Currency) {
	fmt.Fprintf(w, "Cumulative Annual Growth Rate: %s (%s on %s to %s on %s over %.4g years)\n",
		text.Bold.Sprint(formatPercent(g.Rate)),
		cur.Format(g.Begin.Float()), g.Begin.Date.Format("2006-01-02"),
		cur.Format(g.End.Float()), g.End.Date.Format("2006-01-02"),
		g.Years)
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
