// Package deposits provides fixed deposit and systematic investment plan
// growth formulas.
package deposits

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"github.com/iwvelando/finance-tracker/pkg/validation"
)

// FixedDeposit describes a lump sum compounded at a fixed rate.
type FixedDeposit struct {
	Name                 string
	Principal            float64
	AnnualRatePercent    float64
	Years                float64
	CompoundingFrequency int // periods per year
}

// Quote is the evaluated outcome of a FixedDeposit.
type Quote struct {
	Name     string
	Maturity float64
	Interest float64
	// EffectiveYield is the equivalent once-a-year rate in percent.
	EffectiveYield float64
}

// Maturity returns principal * (1 + r/n)^(n*t) with r = annualRatePercent/100.
func Maturity(principal, annualRatePercent, years float64, frequency int) (float64, error) {
	err := validation.First(
		validation.NonNegative("principal", principal),
		validation.NonNegative("annual rate", annualRatePercent),
		validation.Positive("years", years),
		validation.AtLeast("compounding frequency", frequency, 1),
	)
	if err != nil {
		return 0, err
	}

	n := float64(frequency)
	r := mathutil.PercentToDecimal(annualRatePercent)
	return principal * math.Pow(1+r/n, n*years), nil
}

// Interest returns the interest earned by a deposit that grew from principal
// to maturity.
func Interest(principal, maturity float64) float64 {
	return maturity - principal
}

// EffectiveYield returns the annual percentage yield of a nominal rate
// compounded frequency times a year.
func EffectiveYield(annualRatePercent float64, frequency int) (float64, error) {
	err := validation.First(
		validation.NonNegative("annual rate", annualRatePercent),
		validation.AtLeast("compounding frequency", frequency, 1),
	)
	if err != nil {
		return 0, err
	}
	n := float64(frequency)
	r := mathutil.PercentToDecimal(annualRatePercent)
	return (math.Pow(1+r/n, n) - 1) * 100, nil
}

// Evaluate computes maturity, interest and effective yield for fd.
func (fd FixedDeposit) Evaluate() (Quote, error) {
	maturity, err := Maturity(fd.Principal, fd.AnnualRatePercent, fd.Years, fd.CompoundingFrequency)
	if err != nil {
		return Quote{}, fmt.Errorf("deposit %q: %w", fd.Name, err)
	}
	yield, err := EffectiveYield(fd.AnnualRatePercent, fd.CompoundingFrequency)
	if err != nil {
		return Quote{}, fmt.Errorf("deposit %q: %w", fd.Name, err)
	}
	return Quote{
		Name:           fd.Name,
		Maturity:       maturity,
		Interest:       Interest(fd.Principal, maturity),
		EffectiveYield: yield,
	}, nil
}

// Compare evaluates every deposit and orders the quotes by maturity, highest
// first. Deposits with equal maturity keep their input order.
func Compare(fds []FixedDeposit) ([]Quote, error) {
	quotes := make([]Quote, 0, len(fds))
	for _, fd := range fds {
		q, err := fd.Evaluate()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Maturity > quotes[j].Maturity
	})
	return quotes, nil
}
