package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		expected string
	}{
		{"Dollars with separators", 1234.56, "USD", "$1,234.56"},
		{"Negative dollars", -1234.5, "USD", "-$1,234.50"},
		{"Lowercase code", 10, "usd", "$10.00"},
		{"Zero", 0, "USD", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.code); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %q, expected %q", tt.amount, tt.code, got, tt.expected)
			}
		})
	}
}

func TestCurrencyFallsBackToDefault(t *testing.T) {
	if Currency(100, "") != Currency(100, "INR") {
		t.Errorf("expected empty code to render as INR, got %q", Currency(100, ""))
	}
	if Currency(100, "NOPE") != Currency(100, "INR") {
		t.Errorf("expected unknown code to render as INR, got %q", Currency(100, "NOPE"))
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(12.5); got != "12.50%" {
		t.Errorf("Percent(12.5) = %q", got)
	}
	if got := SignedPercent(3.1); got != "+3.10%" {
		t.Errorf("SignedPercent(3.1) = %q", got)
	}
	if got := SignedPercent(-0.456); got != "-0.46%" {
		t.Errorf("SignedPercent(-0.456) = %q", got)
	}
}
