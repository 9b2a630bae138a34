package deposits

import (
	"math"

	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"github.com/iwvelando/finance-tracker/pkg/validation"
)

// SIPFutureValue returns the ordinary-annuity future value of totalPeriods
// contributions of amount, each growing at annualRatePercent / periodsPerYear
// per period. A zero rate yields amount * totalPeriods exactly.
func SIPFutureValue(amount, annualRatePercent float64, periodsPerYear, totalPeriods int) (float64, error) {
	err := validation.First(
		validation.NonNegative("annual rate", annualRatePercent),
		validation.AtLeast("periods per year", periodsPerYear, 1),
		validation.AtLeast("total periods", totalPeriods, 0),
	)
	if err != nil {
		return 0, err
	}

	i := mathutil.PercentToDecimal(annualRatePercent) / float64(periodsPerYear)
	n := float64(totalPeriods)
	if i == 0 {
		return amount * n, nil
	}
	return amount * (math.Pow(1+i, n) - 1) / i, nil
}

// SIPInvested returns the total contributed over the plan.
func SIPInvested(amount float64, totalPeriods int) float64 {
	return amount * float64(totalPeriods)
}
