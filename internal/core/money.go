package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.English)
)

// ParseAmount converts a major-unit string such as "12.50" or "1,234.5" into minor units.
// Amounts must be strictly positive.
func ParseAmount(s string) (int64, error) {
	minor, err := parseMinor(s)
	if err != nil {
		return 0, err
	}

	if minor <= 0 {
		return 0, Invalid("amount", "must be greater than zero")
	}

	return minor, nil
}

// ParseBudgetAmount is ParseAmount for budget limits, where zero is allowed.
func ParseBudgetAmount(s string) (int64, error) {
	minor, err := parseMinor(s)
	if err != nil {
		return 0, err
	}

	if minor < 0 {
		return 0, Invalid("amount", "must not be negative")
	}

	return minor, nil
}

func parseMinor(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, Invalid("amount", "must not be empty")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, Invalid("amount", "%q is not a number", s)
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// FormatAmount renders minor units as a major-unit string with thousands grouping, e.g. 123456 -> "1,234.56".
func FormatAmount(minor int64) string {
	return printer.Sprintf("%.2f", decimal.NewFromInt(minor).Div(hundred).InexactFloat64())
}

// Percent returns part/whole*100 rounded to the given number of decimals.
// A zero whole yields 0.
func Percent(part, whole int64, places int32) float64 {
	if whole == 0 {
		return 0
	}

	return decimal.NewFromInt(part).Mul(hundred).DivRound(decimal.NewFromInt(whole), places+2).Round(places).InexactFloat64()
}

// Ratio returns num/den as a real number, or 0 when den is zero.
func Ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}

	return decimal.NewFromInt(num).DivRound(decimal.NewFromInt(den), 8).InexactFloat64()
}
