package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads dividends from the first sheet of an Excel workbook.
// The header row must contain Date and Dividends cells; rows above it are ignored,
// so a title or notes may precede the table. Workbooks written by WriteWorkbook
// can be read back with this parser.
func ParseXLSX(path string) ([]DividendRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	// Date cells must be text or use a yyyy-mm-dd number format
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row and column indices
	dateCol, amountCol, dataStartRow := -1, -1, -1
	for i, row := range rows {
		dateCol, amountCol = findColumns(row)
		if dateCol >= 0 && amountCol >= 0 {
			dataStartRow = i + 1
			break
		}
	}
	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find required columns (Date, Dividends)")
	}

	var records []DividendRecord
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]

		// Ensure row has enough columns
		if len(row) <= max(dateCol, amountCol) {
			continue
		}

		dateStr := strings.TrimSpace(row[dateCol])
		amountStr := strings.TrimSpace(row[amountCol])

		// Skip empty rows
		if dateStr == "" && amountStr == "" {
			continue
		}

		rec, err := parseRecord(dateStr, normalizeAmount(amountStr))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// normalizeAmount accepts a decimal comma ("0,79") and thousands separators ("1,234.50")
func normalizeAmount(s string) string {
	if strings.Contains(s, ".") {
		return strings.ReplaceAll(s, ",", "")
	}
	return strings.Replace(s, ",", ".", 1)
}

func init() {
	RegisterParser("xlsx", ".xlsx", ParserFunc(ParseXLSX))
}
