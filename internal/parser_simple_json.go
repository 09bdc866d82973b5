package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// SimpleJSONFormat is a minimal JSON format for dividend histories
// Example:
//
//	{
//	  "dividends": [
//	    {"date": "2021-01-29", "amount": "0.79"},
//	    {"date": "2020-10-08", "amount": "0.79"}
//	  ]
//	}
//
// Amounts may be JSON strings or numbers.
type SimpleJSONFormat struct {
	Dividends []SimpleJSONDividend `json:"dividends"`
}

type SimpleJSONDividend struct {
	Date   string          `json:"date"` // YYYY-MM-DD format
	Amount decimal.Decimal `json:"amount"`
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) ([]DividendRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	records := make([]DividendRecord, 0, len(jsonData.Dividends))
	for _, d := range jsonData.Dividends {
		date, err := parseDate(d.Date)
		if err != nil {
			return nil, err
		}
		records = append(records, DividendRecord{Date: date, Amount: d.Amount})
	}

	return records, nil
}

func init() {
	RegisterParser("simple-json", ".json", ParserFunc(ParseSimpleJSON))
}
