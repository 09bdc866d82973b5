package internal

import (
	"os"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FallbackCurrency is used when none is configured and the locale has no region
const FallbackCurrency = "USD"

// Currency formats per-share amounts with locale-aware separators
type Currency struct {
	Code    string // "CAD", "USD", "SEK"
	symbol  string
	prefix  bool
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// homeLocale is the formatting locale used for a currency when the system
// locale is unknown.
var homeLocale = map[string]language.Tag{
	"USD": language.AmericanEnglish,
	"CAD": language.MustParse("en-CA"),
	"GBP": language.BritishEnglish,
	"EUR": language.German,
	"CHF": language.German,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"JPY": language.Japanese,
	"AUD": language.MustParse("en-AU"),
	"NZD": language.MustParse("en-NZ"),
	"HKD": language.MustParse("zh-HK"),
	"SGD": language.MustParse("en-SG"),
	"INR": language.MustParse("en-IN"),
	"BRL": language.BrazilianPortuguese,
	"ZAR": language.MustParse("en-ZA"),
}

// prefixCurrencies place the symbol before the amount. x/text/currency does not
// expose CLDR symbol placement, so this is maintained by hand.
var prefixCurrencies = map[string]bool{
	"USD": true, "CAD": true, "GBP": true, "JPY": true, "AUD": true,
	"NZD": true, "HKD": true, "SGD": true, "INR": true, "ZAR": true,
}

// GetCurrency returns the Currency for a code, formatted in tag's locale.
// language.Und selects the currency's home locale.
func GetCurrency(code string, tag language.Tag) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	known := err == nil

	if tag == language.Und {
		if t, ok := homeLocale[code]; ok {
			tag = t
		} else {
			tag = language.English
		}
	}
	printer := message.NewPrinter(tag)

	symbol := code
	if sym, ok := symbolOverrides[code]; ok {
		symbol = sym
	} else if known {
		symbol = printer.Sprint(currency.NarrowSymbol(unit))
	}

	return Currency{
		Code:    code,
		symbol:  symbol,
		prefix:  prefixCurrencies[code],
		printer: printer,
	}
}

// Format formats a per-share amount with 2 to 4 fraction digits
func (c Currency) Format(amount float64) string {
	formatted := c.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(4)))
	if c.prefix {
		return c.symbol + formatted
	}
	return formatted + " " + c.symbol
}

// ResolveCurrency picks the currency from the configured code, then the system
// locale, then FallbackCurrency. A configured code is formatted in its home locale.
func ResolveCurrency(configured string) Currency {
	if configured != "" {
		return GetCurrency(configured, language.Und)
	}
	if code, tag := parseCurrencyFromLocale(detectSystemLocale()); code != "" {
		return GetCurrency(code, tag)
	}
	return GetCurrency(FallbackCurrency, language.Und)
}

// detectSystemLocale returns the locale from the environment.
// Priority: LC_MONETARY (most specific), LC_ALL, LANG.
func detectSystemLocale() string {
	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "en_CA.UTF-8" -> ("CAD", en-CA), "sv_SE" -> ("SEK", sv-SE)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	if locale == "" {
		return "", language.Und
	}

	// Strip encoding and modifier suffixes
	base := locale
	if idx := strings.IndexAny(base, ".@"); idx != -1 {
		base = base[:idx]
	}

	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}
	return unit.String(), tag
}
