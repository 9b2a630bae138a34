package testutil

import (
	"testing"

	"github.com/iwvelando/finance-tracker/internal/calculator"
)

func TestFindResult(t *testing.T) {
	results := []calculator.Result{
		{Name: "fund", Kind: calculator.KindXIRR},
		{Name: "fund", Kind: calculator.KindSeries},
	}

	tests := []struct {
		name     string
		kind     calculator.Kind
		resName  string
		expected *calculator.Result
	}{
		{"Matches kind and name", calculator.KindSeries, "fund", &results[1]},
		{"Same name other kind", calculator.KindXIRR, "fund", &results[0]},
		{"Missing", calculator.KindLoan, "fund", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindResult(results, tt.kind, tt.resName); got != tt.expected {
				t.Errorf("FindResult() = %p, expected %p", got, tt.expected)
			}
		})
	}
}

func TestApproxEqual(t *testing.T) {
	if !ApproxEqual(1.005, 1.0, 0.01) {
		t.Error("expected values within tolerance to match")
	}
	if ApproxEqual(1.02, 1.0, 0.01) {
		t.Error("expected values outside tolerance to differ")
	}
}
