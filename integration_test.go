package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/dividend-analysis/internal"
	"github.com/xuri/excelize/v2"
)

var testDataDir = filepath.Join("testdata", "dividends")

// runCLI runs the command with the given params and returns the exit code, stdout and stderr.
// An empty config is used unless params.Config is set, so the user's config cannot interfere.
func runCLI(t *testing.T, params Params) (int, string, string) {
	t.Helper()

	if params.Config == "" {
		params.Config = writeTestConfig(t, "")
	}
	if params.DataDir == "" {
		params.DataDir = testDataDir
	}

	var stdout, stderr bytes.Buffer
	code := run(&params, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// runCLIJSON runs the command with JSON output and parses the result
func runCLIJSON(t *testing.T, params Params) internal.JSONOutput {
	t.Helper()
	params.Output = "json"
	code, stdout, stderr := runCLI(t, params)
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}

	var result internal.JSONOutput
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, stdout)
	}
	return result
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestIntegration_DefaultTicker(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	code, stdout, stderr := runCLI(t, Params{Ticker: "TD.TO", Currency: "CAD", Plot: "terminal"})
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}

	for _, want := range []string{
		"Loaded 109 dividend records for TD.TO",
		"Data range: 1994-01-28 to 2021-01-28",
		"fit0",
		"fit1",
		"fit2",
		"Apr 2011 to Jan 2021",
		"Mar 1995 to Mar 2001",
		"Sep 2003 to Oct 2008",
		"Cumulative Annual Growth Rate:",
		"10.86%",
		"TD.TO dividends (log scale)",
		"Legend:",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stderr, "Warning") {
		t.Errorf("unexpected warnings: %s", stderr)
	}
}

func TestIntegration_JSON(t *testing.T) {
	result := runCLIJSON(t, Params{Ticker: "TD.TO", Currency: "CAD"})

	if result.Ticker != "TD.TO" || result.Summary.Count != 109 {
		t.Errorf("ticker = %q, count = %d", result.Ticker, result.Summary.Count)
	}
	if len(result.Fits) != 3 {
		t.Fatalf("got %d fits, want 3", len(result.Fits))
	}
	for _, f := range result.Fits {
		if f.Records < 2 || len(f.Curve) != f.Records {
			t.Errorf("fit %s: %d records, %d curve points", f.Name, f.Records, len(f.Curve))
		}
		if f.AnnualGrowth <= 0 {
			t.Errorf("fit %s: annual growth %v", f.Name, f.AnnualGrowth)
		}
	}
	if result.Growth == nil {
		t.Fatal("missing cagr")
	}
	if result.Growth.BeginDate != "2020-01-28" || result.Growth.EndDate != "2021-01-28" || result.Growth.Years != 1 {
		t.Errorf("cagr = %+v", result.Growth)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestIntegration_UnknownTicker(t *testing.T) {
	code, stdout, stderr := runCLI(t, Params{Ticker: "MSFT"})
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if stdout != "" {
		t.Errorf("unexpected output: %s", stdout)
	}
	if !strings.Contains(stderr, "ticker symbol not available") || !strings.Contains(stderr, "AAPL, TD.TO") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_MissingTicker(t *testing.T) {
	code, _, stderr := runCLI(t, Params{})
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr, "ticker is required") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_List(t *testing.T) {
	code, stdout, stderr := runCLI(t, Params{List: true})
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}
	if stdout != "AAPL\nTD.TO\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestIntegration_WindowOverride(t *testing.T) {
	result := runCLIJSON(t, Params{
		Ticker: "AAPL",
		Window: []string{"2019:Dec 2020", "2030:2031"},
		Cagr:   "Feb 2019:Feb 2021",
	})

	if len(result.Fits) != 1 || result.Fits[0].Start != "2019" || result.Fits[0].Records != 8 {
		t.Errorf("fits = %+v", result.Fits)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want the empty 2030 window", result.Errors)
	}
	if result.Growth == nil || result.Growth.BeginAmount != "0.1825" || result.Growth.EndAmount != "0.205" {
		t.Fatalf("cagr = %+v", result.Growth)
	}
	// years derived from 2019-02-08 to 2021-02-05
	if result.Growth.Years < 1.99 || result.Growth.Years > 2 {
		t.Errorf("years = %v", result.Growth.Years)
	}
}

func TestIntegration_CagrYearsOverride(t *testing.T) {
	result := runCLIJSON(t, Params{Ticker: "TD.TO", CagrYears: 2})
	if result.Growth == nil || result.Growth.Years != 2 {
		t.Fatalf("cagr = %+v", result.Growth)
	}
}

func TestIntegration_CagrYearsWithoutCagr(t *testing.T) {
	code, stdout, stderr := runCLI(t, Params{Ticker: "AAPL", CagrYears: 2})
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if stdout != "" {
		t.Errorf("unexpected output: %s", stdout)
	}
	if !strings.Contains(stderr, "--cagr-years") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_InvalidWindow(t *testing.T) {
	code, _, stderr := runCLI(t, Params{Ticker: "AAPL", Window: []string{"2021:2019"}})
	if code != exitUsage {
		t.Errorf("exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr, "invalid window") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_WholeHistoryWithoutWindows(t *testing.T) {
	result := runCLIJSON(t, Params{Ticker: "AAPL"})
	if len(result.Fits) != 1 {
		t.Fatalf("got %d fits, want 1", len(result.Fits))
	}
	f := result.Fits[0]
	if f.Start != "2019-02-08" || f.End != "2021-02-05" || f.Records != 9 {
		t.Errorf("fit = %+v", f)
	}
	if result.Growth != nil {
		t.Errorf("unexpected cagr: %+v", result.Growth)
	}
}

func TestIntegration_ConfigFile(t *testing.T) {
	cfg := writeTestConfig(t, `
dividend_data_path: `+testDataDir+`
currency: USD
use_default_tickers: false
tickers:
  AAPL:
    windows:
      - "2019:2019"
      - start: "2020"
        end: "2021"
    cagr:
      begin: "2019"
      end: "2020"
      years: 1
`)

	result := runCLIJSON(t, Params{Ticker: "AAPL", Config: cfg})
	if len(result.Fits) != 2 {
		t.Fatalf("got %d fits, want 2", len(result.Fits))
	}
	if result.Summary.Currency != "USD" {
		t.Errorf("currency = %q", result.Summary.Currency)
	}
	if result.Growth == nil || result.Growth.BeginDate != "2019-02-08" || result.Growth.EndDate != "2020-02-07" {
		t.Errorf("cagr = %+v", result.Growth)
	}

	// defaults are disabled, so TD.TO falls back to a single fit
	result = runCLIJSON(t, Params{Ticker: "TD.TO", Config: cfg})
	if len(result.Fits) != 1 || result.Growth != nil {
		t.Errorf("fits = %d, cagr = %+v", len(result.Fits), result.Growth)
	}
}

func TestIntegration_MalformedConfig(t *testing.T) {
	cfg := writeTestConfig(t, "tickers:\n  AAPL:\n    windows: [\"2019\"]\n")
	code, _, stderr := runCLI(t, Params{Ticker: "AAPL", Config: cfg})
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr, "Error loading config") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_Xlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.xlsx")
	code, _, stderr := runCLI(t, Params{Ticker: "TD.TO", Xlsx: path, Plot: "none"})
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Dividends")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 110 {
		t.Errorf("got %d rows, want header plus 109", len(rows))
	}
	if rows[1][0] != "1994-01-28" {
		t.Errorf("first date = %q, want the oldest payout", rows[1][0])
	}

	fits, err := f.GetRows("Fits")
	if err != nil {
		t.Fatalf("failed to read fits: %v", err)
	}
	if len(fits) < 3 || len(fits[1]) != 6 {
		t.Errorf("fits sheet should hold 3 column pairs, got %v", fits[:min(len(fits), 2)])
	}
}

func TestIntegration_XlsxFormat(t *testing.T) {
	dir := t.TempDir()
	if code, _, stderr := runCLI(t, Params{Ticker: "AAPL", Xlsx: filepath.Join(dir, "AAPL.xlsx")}); code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}

	// the exported workbook is itself a valid data file for the xlsx format
	result := runCLIJSON(t, Params{Ticker: "AAPL", DataDir: dir, Format: "xlsx"})
	if result.Summary.Count != 9 || result.Summary.LastDate != "2021-02-05" {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestIntegration_InitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "config.yml")

	code, stdout, stderr := runCLI(t, Params{InitConfig: true, Config: path})
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Wrote config template with 2 ticker(s)") {
		t.Errorf("stdout = %q", stdout)
	}

	cfg, err := internal.LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.DividendDataPath != testDataDir {
		t.Errorf("dividend_data_path = %q", cfg.DividendDataPath)
	}
	if _, ok := cfg.Tickers["AAPL"]; !ok {
		t.Error("AAPL entry missing")
	}
	if len(cfg.GetWindows("TD.TO")) != 3 {
		t.Errorf("TD.TO windows = %v", cfg.GetWindows("TD.TO"))
	}

	// refuses to overwrite
	if code, _, _ := runCLI(t, Params{InitConfig: true, Config: path}); code != exitFailure {
		t.Errorf("second run exit code = %d, want %d", code, exitFailure)
	}
}

func copyFixture(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIntegration_ListedTickersLoad(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, filepath.Join(testDataDir, "AAPL.csv"), filepath.Join(dir, "AAPL.csv"))
	copyFixture(t, filepath.Join(testDataDir, "AAPL.csv"), filepath.Join(dir, "RY.TO.CSV"))

	code, stdout, stderr := runCLI(t, Params{List: true, DataDir: dir})
	if code != exitOK {
		t.Fatalf("exit code %d\nStderr: %s", code, stderr)
	}
	if stdout != "AAPL\n" {
		t.Errorf("stdout = %q, want only AAPL", stdout)
	}

	for _, ticker := range strings.Fields(stdout) {
		if code, _, stderr := runCLI(t, Params{Ticker: ticker, DataDir: dir}); code != exitOK {
			t.Errorf("listed ticker %s: exit code %d\nStderr: %s", ticker, code, stderr)
		}
	}

	// a file with a differently cased extension is an argument error, not a load failure
	code, _, stderr = runCLI(t, Params{Ticker: "RY.TO", DataDir: dir})
	if code != exitUsage {
		t.Errorf("RY.TO exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr, "ticker symbol not available") {
		t.Errorf("stderr = %q", stderr)
	}
}
