package services

import "testing"

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Zero Dollars and 00/100"},
		{"one dollar", 1, "One Dollar and 00/100"},
		{"cents only", 0.75, "Zero Dollars and 75/100"},
		{"teens", 15, "Fifteen Dollars and 00/100"},
		{"hundreds", 500, "Five Hundred Dollars and 00/100"},
		{"with cents", 1234.5, "One Thousand Two Hundred Thirty Four Dollars and 50/100"},
		{"millions", 12345678, "Twelve Million Three Hundred Forty Five Thousand Six Hundred Seventy Eight Dollars and 00/100"},
		{"exact thousand", 100000, "One Hundred Thousand Dollars and 00/100"},
		{"rounds cents", 19.999, "Twenty Dollars and 00/100"},
		{"negative", -42.1, "Negative Forty Two Dollars and 10/100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountToWords(tt.amount)
			if got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
