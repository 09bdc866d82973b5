package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetDividends = "Dividends"
	sheetFits      = "Fits"
	sheetChart     = "Chart"
)

// WriteWorkbook saves the dividends, the fitted curves and a scatter chart
// overlaying them to an .xlsx file. The value axis is log10 unless linear is set.
func WriteWorkbook(path, ticker string, records []DividendRecord, fits []Fit, linear bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetDividends); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr("yyyy-mm-dd")})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}

	if err := writeDividendsSheet(f, records, dateStyle); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetFits); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeFitsSheet(f, fits, dateStyle); err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:   excelize.Scatter,
		Series: chartSeries(len(records), fits),
		Title:  []excelize.RichTextRun{{Text: ticker + " dividends"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis: excelize.ChartAxis{
			NumFmt: excelize.ChartNumFmt{CustomNumFmt: "yyyy"},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Dividend per share"}},
		},
		Dimension: excelize.ChartDimension{Width: 960, Height: 540},
	}
	if !linear {
		chart.YAxis.LogBase = 10
	}
	if err := f.AddChartSheet(sheetChart, chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeDividendsSheet(f *excelize.File, records []DividendRecord, dateStyle int) error {
	if err := f.SetSheetRow(sheetDividends, "A1", &[]any{"Date", "Dividends"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetDividends, cell, &[]any{r.Date, r.Float()}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if len(records) > 0 {
		last, _ := excelize.CoordinatesToCellName(1, len(records)+1)
		if err := f.SetCellStyle(sheetDividends, "A2", last, dateStyle); err != nil {
			return fmt.Errorf("styling dates: %w", err)
		}
	}
	return f.SetColWidth(sheetDividends, "A", "B", 12)
}

// writeFitsSheet lays out one Date/Fitted column pair per fit, with the
// equation in the header row.
func writeFitsSheet(f *excelize.File, fits []Fit, dateStyle int) error {
	for i, fit := range fits {
		dateCol := 2*i + 1
		header, _ := excelize.CoordinatesToCellName(dateCol, 1)
		if err := f.SetSheetRow(sheetFits, header, &[]any{fit.Window.String(), fit.Equation()}); err != nil {
			return fmt.Errorf("writing fit header: %w", err)
		}
		sub, _ := excelize.CoordinatesToCellName(dateCol, 2)
		if err := f.SetSheetRow(sheetFits, sub, &[]any{"Date", fmt.Sprintf("fit%d", i)}); err != nil {
			return fmt.Errorf("writing fit header: %w", err)
		}
		for j, p := range fit.Curve {
			cell, _ := excelize.CoordinatesToCellName(dateCol, j+3)
			if err := f.SetSheetRow(sheetFits, cell, &[]any{p.Date, p.Amount}); err != nil {
				return fmt.Errorf("writing fit row: %w", err)
			}
		}
		if len(fit.Curve) > 0 {
			first, _ := excelize.CoordinatesToCellName(dateCol, 3)
			last, _ := excelize.CoordinatesToCellName(dateCol, len(fit.Curve)+2)
			if err := f.SetCellStyle(sheetFits, first, last, dateStyle); err != nil {
				return fmt.Errorf("styling dates: %w", err)
			}
		}
	}
	return nil
}

func chartSeries(n int, fits []Fit) []excelize.ChartSeries {
	series := []excelize.ChartSeries{{
		Name:       fmt.Sprintf("%s!$B$1", sheetDividends),
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetDividends, n+1),
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetDividends, n+1),
		Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 4},
	}}
	for i, fit := range fits {
		dateCol, _ := excelize.ColumnNumberToName(2*i + 1)
		valueCol, _ := excelize.ColumnNumberToName(2*i + 2)
		last := len(fit.Curve) + 2
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$2", sheetFits, valueCol),
			Categories: fmt.Sprintf("%s!$%s$3:$%s$%d", sheetFits, dateCol, dateCol, last),
			Values:     fmt.Sprintf("%s!$%s$3:$%s$%d", sheetFits, valueCol, valueCol, last),
			Line:       excelize.ChartLine{Type: excelize.ChartLineSolid, Width: 2},
			Marker:     excelize.ChartMarker{Symbol: "none"},
		})
	}
	return series
}

func ptr[T any](v T) *T { return &v }
