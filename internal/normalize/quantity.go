package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity parses a liter quantity from spreadsheet text. Accepts
// comma decimal separators and thousands separators as they appear in the
// legacy exports ("1.234,56" and "1,234.56" both parse to 1234.56).
func ParseQuantity(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// comma is the decimal separator, dots are grouping
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseMeter parses an optional meter reading (horometer hours or odometer
// kilometers). Returns nil for blank cells; a non-nil result is always a
// valid non-negative decimal, false otherwise.
func ParseMeter(s string) (*decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	d, ok := ParseQuantity(s)
	if !ok || d.IsNegative() {
		return nil, false
	}
	return &d, true
}
