// Package output provides utilities for formatting and displaying calculation
// results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-tracker/internal/calculator"
	"github.com/iwvelando/finance-tracker/pkg/format"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table per
// result. Currency values are shown in the given ISO 4217 currency.
func PrettyFormat(w io.Writer, results []calculator.Result, currency string) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if _, err := fmt.Fprintf(w, "--- Results for %s %s ---\n", result.Kind, result.Name); err != nil {
			return err
		}
		for _, v := range result.Values {
			if _, err := fmt.Fprintf(w, "%-20s | %s\n", v.Label, display(p, v, currency)); err != nil {
				return err
			}
		}
		for _, note := range result.Notes {
			if _, err := fmt.Fprintf(w, "note: %s\n", note); err != nil {
				return err
			}
		}
		if len(results) > 1 && i < len(results)-1 {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func display(p *message.Printer, v calculator.Value, currency string) string {
	switch v.Unit {
	case calculator.UnitCurrency:
		return format.Currency(v.Amount, currency)
	case calculator.UnitPercent:
		return format.Percent(v.Amount)
	case calculator.UnitYears:
		return p.Sprintf("%.2f years", v.Amount)
	default:
		return p.Sprintf("%.0f", v.Amount)
	}
}

// CsvFormat writes one row per value in comma-separated value format. Notes
// are emitted as rows with the metric "note".
func CsvFormat(w io.Writer, results []calculator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "kind", "metric", "value"}); err != nil {
		return err
	}
	for _, result := range results {
		for _, v := range result.Values {
			record := []string{result.Name, string(result.Kind), v.Label, strconv.FormatFloat(mathutil.Round(v.Amount), 'f', 2, 64)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		for _, note := range result.Notes {
			if err := cw.Write([]string{result.Name, string(result.Kind), "note", note}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
