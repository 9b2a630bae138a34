// Package format renders amounts and rates for display.
package format

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/finance-tracker/pkg/constants"
)

// Currency renders amount in the given ISO 4217 currency, e.g. "₹1,234.56".
// An unknown or empty code falls back to constants.DefaultCurrency.
func Currency(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		code = constants.DefaultCurrency
	}
	return money.NewFromFloat(amount, code).Display()
}

// Percent renders a percentage with two decimals, e.g. "12.50%".
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedPercent renders a percentage with an explicit sign, e.g. "+3.10%".
func SignedPercent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}
