package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseStatementAmount reads a bank statement amount into minor units. The
// last of '.' and ',' is the decimal separator and the other one groups
// thousands, so "1.234,56" and "1,234.56" both yield 123456. Currency
// symbols and spaces are ignored.
func parseStatementAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '+', r == '.', r == ',':
			return r
		default:
			return -1
		}
	}, s)

	decimalSep, groupSep := ",", "."
	if strings.LastIndex(clean, ".") > strings.LastIndex(clean, ",") {
		decimalSep, groupSep = ".", ","
	}

	clean = strings.ReplaceAll(clean, groupSep, "")
	clean = strings.Replace(clean, decimalSep, ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Shift(2).Round(0).IntPart(), nil
}
