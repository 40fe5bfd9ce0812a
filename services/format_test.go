package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"zero", "0", "₹0.00"},
		{"small integer", "5", "₹5.00"},
		{"with decimals", "42.5", "₹42.50"},
		{"hundreds", "999.99", "₹999.99"},
		{"thousands", "1234.56", "₹1,234.56"},
		{"lakhs", "123456.78", "₹1,23,456.78"},
		{"crores", "12345678.90", "₹1,23,45,678.90"},
		{"negative small", "-100", "-₹100.00"},
		{"negative lakhs", "-250000.50", "-₹2,50,000.50"},
		{"rounds half up", "10.005", "₹10.01"},
		{"exact lakh boundary", "100000", "₹1,00,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(decimal.RequireFromString(tt.input))
			if got != tt.expect {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatINRFloat(t *testing.T) {
	if got := FormatINRFloat(625); got != "₹625.00" {
		t.Errorf("FormatINRFloat(625) = %q", got)
	}
}

func TestApplyIndianGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"999", "999"},
		{"1234", "1,234"},
		{"123456", "1,23,456"},
		{"1234567", "12,34,567"},
		{"1234567890", "1,23,45,67,890"},
	}

	for _, tt := range tests {
		if got := applyIndianGrouping(tt.input); got != tt.expect {
			t.Errorf("applyIndianGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := map[string]string{
		"10":     "10",
		"1.25":   "1.25",
		"2.50":   "2.5",
		"3.3333": "3.33",
	}
	for in, want := range tests {
		if got := FormatQty(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatQty(%s) = %q, want %q", in, got, want)
		}
	}
}
