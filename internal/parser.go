package internal

import (
	"fmt"
	"sort"
)

// DefaultFormat is the Yahoo Finance dividend history CSV export
const DefaultFormat = "yahoo-csv"

// Parser parses a dividend history file into records
type Parser interface {
	Parse(path string) ([]DividendRecord, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) ([]DividendRecord, error)

func (f ParserFunc) Parse(path string) ([]DividendRecord, error) {
	return f(path)
}

type registeredParser struct {
	parser Parser
	ext    string
}

// parsers is the registry of available parsers
var parsers = map[string]registeredParser{}

// RegisterParser registers a parser with the given name. Files in the data
// directory named <TICKER><ext> are read with it.
func RegisterParser(name, ext string, p Parser) {
	parsers[name] = registeredParser{parser: p, ext: ext}
}

// GetParser returns the parser for the given format and its file extension
func GetParser(format string) (Parser, string, error) {
	p, ok := parsers[format]
	if !ok {
		return nil, "", fmt.Errorf("unknown format: %s (available: %v)", format, AvailableFormats())
	}
	return p.parser, p.ext, nil
}

// AvailableFormats returns the sorted names of registered formats
func AvailableFormats() []string {
	var formats []string
	for name := range parsers {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// IsKnownFormat returns true if the name is a registered parser
func IsKnownFormat(name string) bool {
	_, ok := parsers[name]
	return ok
}

func init() {
	// Register built-in parsers
	RegisterParser(DefaultFormat, ".csv", ParserFunc(ParseYahooCSV))
}
