package model

import (
	"fmt"
	"strings"
)

// Theme is a presentation-only preference.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"
	// ThemeDark is the alternative theme.
	ThemeDark Theme = "dark"
)

// Supported currency codes.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	JPY = "JPY"
	CAD = "CAD"
	AUD = "AUD"
)

// SupportedCurrencies lists every currency the ledger can be denominated in.
var SupportedCurrencies = []string{USD, EUR, GBP, JPY, CAD, AUD}

// IsSupportedCurrency reports whether code is one of SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// NormalizeCurrency upper-cases and validates a currency code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !IsSupportedCurrency(code) {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedCurrency, code, strings.Join(SupportedCurrencies, ", "))
	}
	return code, nil
}

// Settings are the user preferences stored alongside the ledger.
type Settings struct {
	Theme          Theme  `json:"theme"`
	Currency       string `json:"currency"`
	AutoSave       bool   `json:"autoSave"`
	BudgetAlerts   bool   `json:"budgetAlerts"`
	MonthlySummary bool   `json:"monthlySummary"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{
		Theme:          ThemeLight,
		Currency:       USD,
		AutoSave:       true,
		BudgetAlerts:   true,
		MonthlySummary: true,
	}
}
