package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LocalConfigPath is checked in the working directory before the per-user config
const LocalConfigPath = "config.yml"

// WindowConfig is a trend window as written in the config file.
// It can be a "start:end" string or a mapping with start and end keys.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// UnmarshalYAML supports both strings and objects
func (w *WindowConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		start, end, ok := strings.Cut(node.Value, ":")
		if !ok {
			return fmt.Errorf("line %d: window %q: expected start:end", node.Line, node.Value)
		}
		w.Start, w.End = strings.TrimSpace(start), strings.TrimSpace(end)
		return nil
	case yaml.MappingNode:
		type plain WindowConfig
		return node.Decode((*plain)(w))
	default:
		return fmt.Errorf("line %d: invalid window format", node.Line)
	}
}

// GrowthConfig selects the two payouts compared by the CAGR
type GrowthConfig struct {
	Begin string  `yaml:"begin"`
	End   string  `yaml:"end"`
	Years float64 `yaml:"years,omitempty"` // 0 derives years from the payout dates
}

// TickerConfig holds per-company analysis settings
type TickerConfig struct {
	Windows []WindowConfig `yaml:"windows,omitempty"`
	CAGR    *GrowthConfig  `yaml:"cagr,omitempty"`

	// compiled from Windows by LoadConfig
	windows []Window
}

// DefaultTickers holds the dividend growth eras picked for Toronto-Dominion.
// They are merged into every config unless use_default_tickers is false.
var DefaultTickers = map[string]TickerConfig{
	"TD.TO": {
		Windows: []WindowConfig{
			{Start: "Apr 2011", End: "Jan 2021"},
			{Start: "Mar 1995", End: "Mar 2001"},
			{Start: "Sep 2003", End: "Oct 2008"},
		},
		CAGR: &GrowthConfig{Begin: "Jan 2020", End: "Jan 2021", Years: 1},
	},
}

type Config struct {
	// DividendDataPath is the directory holding one <TICKER>.csv file per company
	DividendDataPath string `yaml:"dividend_data_path"`

	// Format selects the parser for data files (yahoo-csv, simple-json, xlsx)
	Format string `yaml:"format,omitempty"`

	// Currency is the ISO code used when printing amounts
	Currency string `yaml:"currency,omitempty"`

	// UseDefaultTickers controls whether DefaultTickers are merged in. Defaults to true.
	UseDefaultTickers *bool `yaml:"use_default_tickers,omitempty"`

	Tickers map[string]*TickerConfig `yaml:"tickers,omitempty"`
}

// DefaultConfigPath returns the per-user config file path (~/.dividend-analysis/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dividend-analysis", "config.yaml")
}

// ResolveConfigPath picks the config file to load: the explicit path if given,
// then config.yml in the working directory, then the per-user config.
// Returns an empty string if none exists.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range []string{LocalConfigPath, DefaultConfigPath()} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// NewDefaultConfig creates a config with only the defaults compiled.
// Use this when no config file exists.
func NewDefaultConfig() (*Config, error) {
	cfg := &Config{
		DividendDataPath: filepath.Join("data", "dividends"),
		Format:           DefaultFormat,
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if !IsKnownFormat(cfg.Format) {
		return nil, fmt.Errorf("unknown format %q (available: %v)", cfg.Format, AvailableFormats())
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// compile merges defaults and validates every window and CAGR period
func (c *Config) compile() error {
	useDefaults := c.UseDefaultTickers == nil || *c.UseDefaultTickers
	if c.Tickers == nil {
		c.Tickers = make(map[string]*TickerConfig)
	}
	if useDefaults {
		// User entries take precedence over defaults
		for name, def := range DefaultTickers {
			if _, ok := c.Tickers[name]; ok {
				continue
			}
			tc := def
			tc.Windows = append([]WindowConfig(nil), def.Windows...)
			c.Tickers[name] = &tc
		}
	}

	for name, tc := range c.Tickers {
		if tc == nil {
			tc = &TickerConfig{}
			c.Tickers[name] = tc
		}
		tc.windows = tc.windows[:0]
		for _, wc := range tc.Windows {
			w, err := ParseWindow(wc.Start, wc.End)
			if err != nil {
				return fmt.Errorf("ticker %s: %w", name, err)
			}
			tc.windows = append(tc.windows, w)
		}
		if tc.CAGR != nil {
			if err := tc.CAGR.validate(); err != nil {
				return fmt.Errorf("ticker %s: %w", name, err)
			}
		}
	}
	return nil
}

func (g *GrowthConfig) validate() error {
	if _, _, err := ParsePeriod(g.Begin); err != nil {
		return fmt.Errorf("cagr begin: %w", err)
	}
	if _, _, err := ParsePeriod(g.End); err != nil {
		return fmt.Errorf("cagr end: %w", err)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetWindows returns the compiled trend windows for a ticker, or nil if none are configured
func (c *Config) GetWindows(ticker string) []Window {
	if c == nil || c.Tickers[ticker] == nil {
		return nil
	}
	return c.Tickers[ticker].windows
}

// GetGrowth returns the CAGR settings for a ticker, or nil if none are configured
func (c *Config) GetGrowth(ticker string) *GrowthConfig {
	if c == nil || c.Tickers[ticker] == nil {
		return nil
	}
	return c.Tickers[ticker].CAGR
}

// GenerateConfigTemplate creates a config with an empty entry per ticker found in the
// data directory, ready to be filled in with windows
func GenerateConfigTemplate(dataDir, format string, tickers []string) *Config {
	cfg := &Config{
		DividendDataPath: dataDir,
		Format:           format,
		Tickers:          make(map[string]*TickerConfig),
	}
	for _, t := range tickers {
		if def, ok := DefaultTickers[t]; ok {
			tc := def
			cfg.Tickers[t] = &tc
			continue
		}
		cfg.Tickers[t] = &TickerConfig{}
	}
	return cfg
}
