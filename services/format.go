package services

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	formatMu       sync.RWMutex
	currencySymbol = "$"
	printer        = message.NewPrinter(language.AmericanEnglish)
)

// SetCurrencyFormat changes the symbol and locale used by FormatCurrency.
// An unparseable locale keeps the current one and returns an error.
func SetCurrencyFormat(symbol, locale string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	formatMu.Lock()
	defer formatMu.Unlock()
	currencySymbol = symbol
	printer = message.NewPrinter(tag)
	return nil
}

// FormatCurrency formats an amount with the configured currency symbol,
// locale digit grouping and exactly 2 decimal places, e.g. "$1,234.50" or
// "-$99.00".
func FormatCurrency(amount float64) string {
	formatMu.RLock()
	defer formatMu.RUnlock()

	sign := ""
	// Round first so -0.001 does not print as "-$0.00".
	amount = math.Round(amount*100) / 100
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + currencySymbol + printer.Sprintf("%.2f", amount)
}

// FormatPercent formats a percentage with one decimal place.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	if math.Abs(p) < 0.05 {
		p = 0
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatQty formats a quantity: whole numbers without decimals, others with 2 decimals.
func FormatQty(val float64) string {
	if val == math.Trunc(val) {
		return fmt.Sprintf("%.0f", val)
	}
	return fmt.Sprintf("%.2f", val)
}
