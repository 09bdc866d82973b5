package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dividend-analysis/internal"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type Params struct {
	Ticker     string   `descr:"Ticker symbol of the company under analysis, e.g. TD.TO" positional:"true" optional:"true"`
	Config     string   `descr:"Path to config file (default: ./config.yml, then ~/.dividend-analysis/config.yaml)" optional:"true"`
	DataDir    string   `descr:"Directory with one dividend file per ticker (overrides dividend_data_path)" optional:"true"`
	Format     string   `descr:"Data file format" alts:"yahoo-csv,simple-json,xlsx" optional:"true"`
	Window     []string `descr:"Trend window as start:end, e.g. 'Apr 2011:Jan 2021' (repeatable, replaces configured windows)" optional:"true"`
	Cagr       string   `descr:"CAGR periods as begin:end, e.g. 'Jan 2020:Jan 2021'" optional:"true"`
	CagrYears  float64  `descr:"Years between the CAGR periods (0 derives them from the payout dates)" default:"0"`
	Output     string   `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Plot       string   `descr:"Chart output for table mode" alts:"terminal,none" strict:"true" default:"terminal"`
	Linear     bool     `descr:"Use a linear value axis instead of log10" default:"false"`
	Xlsx       string   `descr:"Also write the data, fits and a chart to this .xlsx file" optional:"true"`
	Currency   string   `descr:"Currency code for amounts (default: config, then system locale)" optional:"true"`
	Verbose    bool     `descr:"Print fit equations and debug logs" short:"v" default:"false"`
	List       bool     `descr:"List tickers with data files and exit" default:"false"`
	InitConfig bool     `descr:"Write a config template for the tickers in the data directory and exit" default:"false"`
}

func main() {
	boa.NewCmdT[Params]("dividend-analysis").
		WithShort("Analyze a company's historical dividend payouts").
		WithLong("Fits exponential growth trends to a ticker's dividend history over chosen date windows, computes the cumulative annual growth rate and plots the payouts with the fitted curves on a log scale.").
		WithRunFunc(func(params *Params) {
			if code := run(params, os.Stdout, os.Stderr); code != exitOK {
				os.Exit(code)
			}
		}).
		Run()
}

func run(params *Params, stdout, stderr io.Writer) int {
	logger := newLogger(stderr, params.Verbose)

	var cfg *internal.Config
	var err error
	if params.InitConfig {
		cfg, err = internal.NewDefaultConfig()
	} else {
		cfg, err = loadConfig(logger, params.Config)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitFailure
	}
	if params.DataDir != "" {
		cfg.DividendDataPath = params.DataDir
	}
	if params.Format != "" {
		cfg.Format = params.Format
	}
	if params.Currency != "" {
		cfg.Currency = params.Currency
	}

	parser, ext, err := internal.GetParser(cfg.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	dataDir := cfg.DividendDataPath
	if dataDir == "" {
		fmt.Fprintf(stderr, "Error: no data directory (set dividend_data_path in the config or use --data-dir)\n")
		return exitFailure
	}

	if params.List || params.InitConfig {
		return runTickerCommands(params, cfg, ext, stdout, stderr)
	}

	if params.Ticker == "" {
		fmt.Fprintf(stderr, "Error: argument ticker is required\n")
		return exitUsage
	}
	if err := internal.ValidateTicker(dataDir, ext, params.Ticker); err != nil {
		fmt.Fprintf(stderr, "Error: argument ticker: %v\n", err)
		if errors.Is(err, internal.ErrUnknownTicker) {
			return exitUsage
		}
		return exitFailure
	}

	path := internal.TickerPath(dataDir, ext, params.Ticker)
	logger.Debug("loading dividends", "path", path, "format", cfg.Format)
	records, err := parser.Parse(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing %s: %v\n", path, err)
		return exitFailure
	}
	records = internal.SortByDate(records)
	logger.Debug("loaded dividends", "records", len(records))

	opts, err := analysisOptions(cfg, params)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	report := internal.Analyze(logger, params.Ticker, records, opts)
	report.Currency = internal.ResolveCurrency(cfg.Currency)
	report.Verbose = params.Verbose

	for _, we := range report.FitErrors {
		fmt.Fprintf(stderr, "Warning: skipping window %s: %v\n", we.Window, we.Err)
	}
	if report.GrowthErr != nil {
		fmt.Fprintf(stderr, "Warning: cannot compute CAGR: %v\n", report.GrowthErr)
	}

	if params.Output == "json" {
		if err := internal.PrintReportJSON(stdout, report); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return exitFailure
		}
	} else {
		printReport(stdout, stderr, report, params)
	}

	if params.Xlsx != "" {
		if err := internal.WriteWorkbook(params.Xlsx, params.Ticker, records, report.Fits, params.Linear); err != nil {
			fmt.Fprintf(stderr, "Error writing workbook: %v\n", err)
			return exitFailure
		}
		logger.Info("wrote workbook", "path", params.Xlsx)
	}

	return exitOK
}

func printReport(w, stderr io.Writer, report internal.Report, params *Params) {
	internal.PrintSummary(w, report.Ticker, report.Records, report.Currency)
	internal.PrintFitsTable(w, report)
	if report.Growth != nil {
		internal.PrintGrowth(w, *report.Growth, report.Currency)
		fmt.Fprintln(w)
	}

	if params.Plot != "terminal" {
		return
	}
	title := report.Ticker + " dividends (log scale)"
	if params.Linear {
		title = report.Ticker + " dividends"
	}
	if err := internal.PlotDividends(w, report.Records, report.Fits, internal.PlotOptions{
		Title:  title,
		Linear: params.Linear,
	}); err != nil {
		fmt.Fprintf(stderr, "Warning: plotting failed: %v\n", err)
	}
}

// analysisOptions combines configured windows and CAGR with command line overrides
func analysisOptions(cfg *internal.Config, params *Params) (internal.AnalysisOptions, error) {
	opts := internal.AnalysisOptions{
		Windows: cfg.GetWindows(params.Ticker),
		Growth:  cfg.GetGrowth(params.Ticker),
	}

	if len(params.Window) > 0 {
		opts.Windows = nil
		for _, arg := range params.Window {
			w, err := internal.ParseWindowArg(arg)
			if err != nil {
				return opts, err
			}
			opts.Windows = append(opts.Windows, w)
		}
	}

	if params.Cagr != "" {
		begin, end, ok := strings.Cut(params.Cagr, ":")
		if !ok {
			return opts, fmt.Errorf("invalid --cagr %q: expected begin:end", params.Cagr)
		}
		opts.Growth = &internal.GrowthConfig{Begin: strings.TrimSpace(begin), End: strings.TrimSpace(end)}
	}
	if params.CagrYears != 0 {
		if opts.Growth == nil {
			return opts, fmt.Errorf("--cagr-years needs --cagr or a cagr configured for %s", params.Ticker)
		}
		g := *opts.Growth
		g.Years = params.CagrYears
		opts.Growth = &g
	}

	return opts, nil
}

func runTickerCommands(params *Params, cfg *internal.Config, ext string, stdout, stderr io.Writer) int {
	tickers, err := internal.ListTickers(cfg.DividendDataPath, ext)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if params.List {
		for _, t := range tickers {
			fmt.Fprintln(stdout, t)
		}
		return exitOK
	}

	path := params.Config
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(stderr, "Error: config file %s already exists\n", path)
		return exitFailure
	}
	tmpl := internal.GenerateConfigTemplate(cfg.DividendDataPath, cfg.Format, tickers)
	if err := tmpl.Save(path); err != nil {
		fmt.Fprintf(stderr, "Error saving config: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Wrote config template with %d ticker(s) to %s\n", len(tickers), path)
	return exitOK
}

// loadConfig reads the config file if one exists, otherwise returns defaults.
// An explicitly given path must exist.
func loadConfig(logger *slog.Logger, explicit string) (*internal.Config, error) {
	path := internal.ResolveConfigPath(explicit)
	if path == "" {
		logger.Debug("no config file found, using defaults")
		return internal.NewDefaultConfig()
	}
	logger.Debug("loading config", "path", path)
	return internal.LoadConfig(path)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
