// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"github.com/iwvelando/finance-tracker/pkg/validation"
	"go.uber.org/zap"
)

// maxProjectionMonths bounds payoff projections at 100 years.
const maxProjectionMonths = 1200

// Payment holds the values for a given payment.
type Payment struct {
	Date               time.Time
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// Projection is the month-by-month payoff of a balance at a fixed EMI.
type Projection struct {
	Payments      []Payment
	TotalInterest float64
	TotalPaid     float64
	PayoffDate    time.Time
}

// Months returns the number of payments needed to clear the balance.
func (p Projection) Months() int {
	return len(p.Payments)
}

// CalculateMonthlyPayment calculates the EMI for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) (float64, error) {
	err := validation.First(
		validation.NonNegative("principal", principal),
		validation.NonNegative("annual rate", annualInterestRate),
		validation.AtLeast("term", termMonths, 1),
	)
	if err != nil {
		return 0, err
	}

	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths), nil
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor, nil
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// ScheduleGenerator projects how an outstanding balance is paid down.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Project pays principal down by emi each month, the first payment falling one
// month after start, until the balance is cleared. The last payment is
// shortened to exactly what remains.
func (g *ScheduleGenerator) Project(principal, annualInterestRate, emi float64, start time.Time) (Projection, error) {
	err := validation.First(
		validation.NonNegative("principal", principal),
		validation.NonNegative("annual rate", annualInterestRate),
		validation.Positive("emi", emi),
	)
	if err != nil {
		return Projection{}, err
	}

	var projection Projection
	balance := principal
	for month := 1; mathutil.Round(balance) > 0; month++ {
		if month > maxProjectionMonths {
			return Projection{}, fmt.Errorf("%w: balance not cleared within %d months",
				validation.ErrNonConvergence, maxProjectionMonths)
		}

		var current Payment
		current.Date = datetime.AddMonths(start, month)
		current.Interest = CalculateInterestPayment(balance, annualInterestRate)
		if month == 1 && current.Interest >= emi {
			return Projection{}, fmt.Errorf("%w: emi %.2f does not cover monthly interest %.2f",
				validation.ErrNonConvergence, emi, current.Interest)
		}

		current.Payment = emi
		current.Principal = emi - current.Interest
		if mathutil.Round(balance-current.Principal) <= 0 {
			// Final payment; avoid carrying machine error forward.
			current.Principal = balance
			current.Payment = balance + current.Interest
			current.RemainingPrincipal = 0
		} else {
			current.RemainingPrincipal = balance - current.Principal
		}

		projection.Payments = append(projection.Payments, current)
		projection.TotalInterest += current.Interest
		projection.TotalPaid += current.Payment
		balance = current.RemainingPrincipal
	}

	if n := len(projection.Payments); n > 0 {
		projection.PayoffDate = projection.Payments[n-1].Date
	} else {
		projection.PayoffDate = start
	}

	g.logger.Debug(fmt.Sprintf("projected payoff of %.2f in %d months", principal, projection.Months()),
		zap.String("op", "loans.Project"),
		zap.Float64("total_interest", projection.TotalInterest),
	)
	return projection, nil
}
