package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"github.com/iwvelando/finance-tracker/pkg/validation"
	"github.com/iwvelando/finance-tracker/pkg/xirr"
	"go.uber.org/zap"
)

// LoanState is the borrower's view of a running loan.
type LoanState struct {
	Name                  string
	LoanAmount            float64
	TotalInstallments     int
	RemainingInstallments int
	RemainingPrincipal    float64
	EMI                   float64
}

// LoanDetails summarizes what has been paid on a loan and what is still owed.
type LoanDetails struct {
	PaidInstallments      int
	TotalAmountPaid       float64
	TotalInterestPaid     float64
	TotalAmountPayable    float64
	TotalInterestOverLoan float64
	RemainingAmount       float64
	RemainingMonths       int
	RemainingYears        float64
	// XIRR is the annualized percent rate implied by paying RemainingPrincipal
	// off through the remaining installments. Zero when nothing remains.
	XIRR          float64
	XIRRConverged bool
}

// Validate checks the internal consistency of state.
func (s LoanState) Validate() error {
	return validation.First(
		validation.NonNegative("loan amount", s.LoanAmount),
		validation.NonNegative("remaining principal", s.RemainingPrincipal),
		validation.NonNegative("emi", s.EMI),
		validation.AtLeast("total installments", s.TotalInstallments, 0),
		validation.AtLeast("remaining installments", s.RemainingInstallments, 0),
		validation.NotAbove("remaining installments", float64(s.RemainingInstallments),
			"total installments", float64(s.TotalInstallments)),
	)
}

// Details computes the loan summary as of asOf, the date of the synthetic
// outflow anchoring the XIRR schedule.
func Details(state LoanState, asOf time.Time) (LoanDetails, error) {
	return NewAnalyzer(nil).Details(state, asOf)
}

// Analyzer computes loan summaries, logging solver trouble.
type Analyzer struct {
	logger *zap.Logger
	solver *xirr.Solver
}

// NewAnalyzer creates an analyzer sharing logger with its rate solver.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger, solver: xirr.NewSolver(logger)}
}

// Details computes the loan summary for state as of asOf.
func (a *Analyzer) Details(state LoanState, asOf time.Time) (LoanDetails, error) {
	if err := state.Validate(); err != nil {
		return LoanDetails{}, fmt.Errorf("loan %q: %w", state.Name, err)
	}

	var d LoanDetails
	d.PaidInstallments = state.TotalInstallments - state.RemainingInstallments
	d.TotalAmountPaid = float64(d.PaidInstallments) * state.EMI
	d.TotalInterestPaid = mathutil.Max(0, d.TotalAmountPaid-(state.LoanAmount-state.RemainingPrincipal))
	d.TotalAmountPayable = state.EMI * float64(state.TotalInstallments)
	d.TotalInterestOverLoan = d.TotalAmountPayable - state.LoanAmount
	d.RemainingAmount = state.RemainingPrincipal + state.EMI*float64(state.RemainingInstallments)
	d.RemainingMonths = state.RemainingInstallments
	d.RemainingYears = float64(d.RemainingMonths) / constants.MonthsPerYear

	if state.RemainingInstallments == 0 || mathutil.IsZero(state.RemainingPrincipal) {
		a.logger.Debug(fmt.Sprintf("loan %s has nothing outstanding, skipping rate", state.Name),
			zap.String("op", "loans.Details"),
		)
		return d, nil
	}

	result, err := a.solver.Solve(RemainingSchedule(state, asOf), constants.DefaultGuess)
	if err != nil {
		return LoanDetails{}, fmt.Errorf("loan %q: %w", state.Name, err)
	}
	d.XIRR = result.Rate
	d.XIRRConverged = result.Converged
	return d, nil
}

// RemainingSchedule builds the cash flows of paying the remaining principal
// off: -RemainingPrincipal on asOf, then +EMI on each of the following
// RemainingInstallments months.
func RemainingSchedule(state LoanState, asOf time.Time) []xirr.CashFlow {
	flows := make([]xirr.CashFlow, 0, state.RemainingInstallments+1)
	flows = append(flows, xirr.CashFlow{Amount: -state.RemainingPrincipal, Date: asOf})
	for i := 1; i <= state.RemainingInstallments; i++ {
		flows = append(flows, xirr.CashFlow{Amount: state.EMI, Date: datetime.AddMonths(asOf, i)})
	}
	return flows
}

// ApproximateTotalInstallments guesses a loan's installment count as
// round(loanAmount / (emi * 0.6)).
//
// Deprecated: the heuristic has no derivation. Use it only when the real
// installment count is unknown.
func ApproximateTotalInstallments(loanAmount, emi float64) (int, error) {
	err := validation.First(
		validation.NonNegative("loan amount", loanAmount),
		validation.Positive("emi", emi),
	)
	if err != nil {
		return 0, err
	}
	return int(math.Round(loanAmount / (emi * constants.ApproximateInstallmentFactor))), nil
}
