package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR formats an amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
// The result always includes exactly 2 decimal places.
func FormatINR(amount decimal.Decimal) string {
	negative := amount.Sign() < 0
	raw := amount.Abs().StringFixed(2)

	// Split into integer and decimal parts.
	parts := strings.SplitN(raw, ".", 2)
	formatted := applyIndianGrouping(parts[0])

	result := "₹" + formatted + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatINRFloat is FormatINR for values read straight off a record.
func FormatINRFloat(amount float64) string {
	return FormatINR(decimal.NewFromFloat(amount))
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// FormatQty renders a quantity without trailing zeros, at most 2 decimals.
func FormatQty(qty decimal.Decimal) string {
	return qty.Round(2).String()
}
