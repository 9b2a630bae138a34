// Package xirr estimates the annualized rate of return of an irregular series
// of dated cash flows.
//
// The estimate uses continuous compounding on a 365-day year:
//
//	NPV(r) = Σ cf_i * exp(-r * days_i / 365)
//
// where days_i counts whole calendar days from the first cash flow in the
// list. Newton-Raphson steps are taken until |NPV(r)| drops below
// constants.NPVTolerance or constants.MaxIterations is reached. Both limits are
// part of the numeric contract; rates saved by earlier versions depend on them.
package xirr

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

// CashFlow is a signed amount on a calendar date. Outflows (investments) are
// negative, inflows (redemptions, repayments received) are positive.
type CashFlow struct {
	Amount float64
	Date   time.Time
}

// Result is the outcome of a solve.
type Result struct {
	// Rate is the annualized rate in percent, e.g. 12.5 for 12.5%.
	Rate       float64
	Iterations int
	// Converged is false when the iteration cap was reached before |NPV|
	// fell under tolerance. Rate then holds the last iterate.
	Converged bool
}

// Solver runs the Newton-Raphson estimate and logs non-convergence.
type Solver struct {
	logger        *zap.Logger
	maxIterations int
	tolerance     float64
}

// NewSolver creates a solver with the standard iteration cap and tolerance.
func NewSolver(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger:        logger,
		maxIterations: constants.MaxIterations,
		tolerance:     constants.NPVTolerance,
	}
}

// Solve estimates the rate with a silent solver.
func Solve(flows []CashFlow, guess float64) (Result, error) {
	return NewSolver(nil).Solve(flows, guess)
}

// SolveDefault estimates the rate starting from constants.DefaultGuess.
func SolveDefault(flows []CashFlow) (Result, error) {
	return Solve(flows, constants.DefaultGuess)
}

// Solve estimates the annualized rate of flows starting from guess (a decimal,
// 0.10 for 10%).
//
// Exhausting the iteration budget is not an error: the last iterate is returned
// with Converged set to false. A zero derivative yields ErrDegenerateInput and a
// rate that leaves the finite range yields ErrNonConvergence.
func (s *Solver) Solve(flows []CashFlow, guess float64) (Result, error) {
	if len(flows) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 cash flows, got %d", validation.ErrInvalidInput, len(flows))
	}
	if !mathutil.IsFinite(guess) {
		return Result{}, fmt.Errorf("%w: initial guess must be finite", validation.ErrInvalidInput)
	}

	years := yearFractions(flows)
	spread := false
	for _, y := range years {
		if y != 0 {
			spread = true
			break
		}
	}
	if !spread {
		return Result{}, fmt.Errorf("%w: all %d cash flows fall on %s",
			validation.ErrDegenerateInput, len(flows), datetime.Format(flows[0].Date))
	}

	rate := guess
	for i := 0; i < s.maxIterations; i++ {
		npv, derivative := evaluate(flows, years, rate)
		if math.Abs(npv) < s.tolerance {
			return Result{Rate: rate * constants.PercentageMultiplier, Iterations: i, Converged: true}, nil
		}
		if derivative == 0 {
			return Result{}, fmt.Errorf("%w: zero derivative at rate %v after %d iterations",
				validation.ErrDegenerateInput, rate, i)
		}

		rate -= npv / derivative
		if !mathutil.IsFinite(rate) {
			s.logger.Warn("rate diverged",
				zap.String("op", "xirr.Solve"),
				zap.Int("iteration", i+1),
				zap.Float64("guess", guess),
			)
			return Result{}, fmt.Errorf("%w: rate diverged after %d iterations", validation.ErrNonConvergence, i+1)
		}
	}

	npv, _ := evaluate(flows, years, rate)
	if math.Abs(npv) < s.tolerance {
		return Result{Rate: rate * constants.PercentageMultiplier, Iterations: s.maxIterations, Converged: true}, nil
	}

	s.logger.Warn("iteration budget exhausted, returning best-effort rate",
		zap.String("op", "xirr.Solve"),
		zap.Int("iterations", s.maxIterations),
		zap.Float64("rate", rate),
		zap.Float64("npv", npv),
	)
	return Result{Rate: rate * constants.PercentageMultiplier, Iterations: s.maxIterations}, nil
}

// NPV returns the continuously compounded net present value of flows at rate
// (a decimal), discounted to the date of the first flow.
func NPV(flows []CashFlow, rate float64) float64 {
	if len(flows) == 0 {
		return 0
	}
	npv, _ := evaluate(flows, yearFractions(flows), rate)
	return npv
}

// FromAmounts builds the two-flow schedule of a single investment: initial paid
// out on start and final received on end.
func FromAmounts(initial float64, start time.Time, final float64, end time.Time) []CashFlow {
	return []CashFlow{
		{Amount: -math.Abs(initial), Date: start},
		{Amount: final, Date: end},
	}
}

func yearFractions(flows []CashFlow) []float64 {
	years := make([]float64, len(flows))
	first := flows[0].Date
	for i, cf := range flows {
		years[i] = float64(datetime.DaysBetween(first, cf.Date)) / constants.DaysPerYear
	}
	return years
}

func evaluate(flows []CashFlow, years []float64, rate float64) (npv, derivative float64) {
	for i, cf := range flows {
		discounted := cf.Amount * math.Exp(-rate*years[i])
		npv += discounted
		derivative += -years[i] * discounted
	}
	return npv, derivative
}
