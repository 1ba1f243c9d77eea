package services

import (
	"math"
	"testing"
)

func TestFormatCurrency_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.50, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -100, "-$100.00"},
		{"negative thousands", -250000.5, "-$250,000.50"},
		{"rounds half cent", 0.005, "$0.01"},
		{"tiny negative is zero", -0.001, "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSetCurrencyFormat(t *testing.T) {
	t.Cleanup(func() {
		if err := SetCurrencyFormat("$", "en-US"); err != nil {
			t.Fatalf("restore format: %v", err)
		}
	})

	if err := SetCurrencyFormat("£", "en-GB"); err != nil {
		t.Fatalf("SetCurrencyFormat error: %v", err)
	}
	if got := FormatCurrency(1234.5); got != "£1,234.50" {
		t.Errorf("FormatCurrency(1234.5) with en-GB = %q, want £1,234.50", got)
	}

	if err := SetCurrencyFormat("€", "not a locale!"); err == nil {
		t.Error("expected error for invalid locale")
	}
	if got := FormatCurrency(1); got != "£1.00" {
		t.Errorf("invalid locale must keep previous format, got %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.345, "12.3%"},
		{0, "0.0%"},
		{-0.01, "0.0%"},
		{-7.26, "-7.3%"},
		{math.NaN(), "0.0%"},
		{math.Inf(1), "0.0%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{2.5, "2.50"},
		{0, "0"},
		{1.333, "1.33"},
	}
	for _, tt := range tests {
		if got := FormatQty(tt.in); got != tt.want {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
