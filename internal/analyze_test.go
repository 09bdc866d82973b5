package internal

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAnalyze_WholeHistory(t *testing.T) {
	records := exponentialRecords(date("2019-02-08"), 0.73, 0.0001, []int{0, 90, 180, 270, 360})

	report := Analyze(discardLogger, "AAPL", records, AnalysisOptions{})

	if len(report.Fits) != 1 {
		t.Fatalf("got %d fits, want 1", len(report.Fits))
	}
	w := report.Fits[0].Window
	if !w.From.Equal(records[0].Date) || !w.To.Equal(records[4].Date) {
		t.Errorf("window = %s", w)
	}
	if report.Growth != nil || report.GrowthErr != nil {
		t.Error("no CAGR should be computed without growth settings")
	}
}

func TestAnalyze_FailedWindowDoesNotStopOthers(t *testing.T) {
	records := []DividendRecord{
		rec("1996-01-30", "0.08"),
		rec("2019-01-31", "0.67"),
		rec("2019-04-30", "0.70"),
		rec("2020-01-31", "0.74"),
		rec("2021-01-29", "0.79"),
	}
	early, _ := ParseWindow("1995", "2001")
	recent, _ := ParseWindow("2019", "2021")
	empty, _ := ParseWindow("2005", "2006")

	report := Analyze(discardLogger, "TD.TO", records, AnalysisOptions{
		Windows: []Window{early, recent, empty},
		Growth:  &GrowthConfig{Begin: "Jan 2020", End: "Jan 2021", Years: 1},
	})

	if len(report.Fits) != 1 || report.Fits[0].Window.Start != "2019" {
		t.Fatalf("fits = %+v", report.Fits)
	}
	if len(report.FitErrors) != 2 {
		t.Fatalf("got %d fit errors, want 2", len(report.FitErrors))
	}
	for _, we := range report.FitErrors {
		if !errors.Is(we.Err, ErrTooFewRecords) {
			t.Errorf("window %s: error = %v, want %v", we.Window, we.Err, ErrTooFewRecords)
		}
	}

	if report.Growth == nil {
		t.Fatalf("growth error: %v", report.GrowthErr)
	}
	if want := 0.79/0.74 - 1; math.Abs(report.Growth.Rate-want) > 1e-12 {
		t.Errorf("Rate = %v, want %v", report.Growth.Rate, want)
	}
}

func TestAnalyze_GrowthError(t *testing.T) {
	records := []DividendRecord{rec("2020-01-28", "0.79"), rec("2020-04-28", "0.79")}
	report := Analyze(discardLogger, "TD.TO", records, AnalysisOptions{
		Growth: &GrowthConfig{Begin: "Jan 2020", End: "Jan 2021"},
	})
	if !errors.Is(report.GrowthErr, ErrNoRecordInPeriod) {
		t.Errorf("GrowthErr = %v, want %v", report.GrowthErr, ErrNoRecordInPeriod)
	}
	if report.Growth != nil {
		t.Error("Growth should be nil on error")
	}
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(discardLogger, "AAPL", nil, AnalysisOptions{})
	if len(report.Fits) != 0 || len(report.FitErrors) != 0 {
		t.Errorf("report = %+v", report)
	}
}

// The default TD.TO windows over the bundled history all produce a growing trend
func TestAnalyze_DefaultTickerTestdata(t *testing.T) {
	records, err := ParseYahooCSV(filepath.Join("..", "testdata", "dividends", "TD.TO.csv"))
	if err != nil {
		t.Fatal(err)
	}
	records = SortByDate(records)

	cfg, err := NewDefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	report := Analyze(discardLogger, "TD.TO", records, AnalysisOptions{
		Windows: cfg.GetWindows("TD.TO"),
		Growth:  cfg.GetGrowth("TD.TO"),
	})

	if len(report.FitErrors) != 0 {
		t.Fatalf("fit errors: %v", report.FitErrors)
	}
	if len(report.Fits) != 3 {
		t.Fatalf("got %d fits, want 3", len(report.Fits))
	}
	for _, f := range report.Fits {
		if f.AnnualGrowth() <= 0 {
			t.Errorf("window %s: annual growth %v, want positive", f.Window, f.AnnualGrowth())
		}
	}
	if report.Growth == nil {
		t.Fatalf("growth error: %v", report.GrowthErr)
	}
	if want := 0.387/0.3491 - 1; math.Abs(report.Growth.Rate-want) > 1e-12 {
		t.Errorf("Rate = %v, want %v", report.Growth.Rate, want)
	}
}
