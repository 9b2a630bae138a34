package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/finance-tracker/internal/calculator"
)

func sampleResults() []calculator.Result {
	return []calculator.Result{
		{
			Name: "bank fd",
			Kind: calculator.KindDeposit,
			Values: []calculator.Value{
				{Label: "maturity", Amount: 13828.171, Unit: calculator.UnitCurrency},
				{Label: "effective yield", Amount: 6.6972, Unit: calculator.UnitPercent},
			},
			Notes: []string{"highest maturity of 2 deposits"},
		},
		{
			Name: "home loan",
			Kind: calculator.KindLoan,
			Values: []calculator.Value{
				{Label: "remaining months", Amount: 36, Unit: calculator.UnitCount},
				{Label: "remaining years", Amount: 3, Unit: calculator.UnitYears},
				{Label: "remaining amount", Amount: 890000, Unit: calculator.UnitCurrency},
			},
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleResults(), "USD"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for deposit bank fd ---",
		"maturity             | $13,828.17",
		"effective yield      | 6.70%",
		"note: highest maturity of 2 deposits",
		"--- Results for loan home loan ---",
		"remaining months     | 36",
		"remaining years      | 3.00 years",
		"$890,000.00",
	}
	for _, fragment := range expected {
		if !strings.Contains(output, fragment) {
			t.Errorf("PrettyFormat output missing %q:\n%s", fragment, output)
		}
	}
	if strings.HasSuffix(output, "\n\n") {
		t.Errorf("PrettyFormat should not end with a blank separator line")
	}
}

func TestPrettyFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, nil, "INR"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	expected := []string{
		"name,kind,metric,value",
		"bank fd,deposit,maturity,13828.17",
		"bank fd,deposit,effective yield,6.70",
		"bank fd,deposit,note,highest maturity of 2 deposits",
		"home loan,loan,remaining months,36.00",
		"home loan,loan,remaining years,3.00",
		"home loan,loan,remaining amount,890000.00",
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(lines), buf.String())
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], expected[i])
		}
	}
}

func TestCsvFormatQuotesNotes(t *testing.T) {
	results := []calculator.Result{{
		Name:  "fund, growth",
		Kind:  calculator.KindXIRR,
		Notes: []string{`rate "estimate"`},
	}}
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"fund, growth",xirr,note,"rate ""estimate"""`) {
		t.Errorf("expected quoted fields, got %q", buf.String())
	}
}
