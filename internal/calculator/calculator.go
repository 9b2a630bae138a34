// Package calculator runs every calculation named in a configuration and
// collects the outcomes for rendering.
package calculator

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-tracker/internal/config"
	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/deposits"
	"github.com/iwvelando/finance-tracker/pkg/loans"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
	"github.com/iwvelando/finance-tracker/pkg/series"
	"github.com/iwvelando/finance-tracker/pkg/xirr"
	"go.uber.org/zap"
)

// Kind names the calculation that produced a Result.
type Kind string

const (
	KindXIRR    Kind = "xirr"
	KindDeposit Kind = "deposit"
	KindSIP     Kind = "sip"
	KindLoan    Kind = "loan"
	KindSeries  Kind = "series"
)

// Unit tells renderers how to display a Value.
type Unit int

const (
	UnitCurrency Unit = iota
	UnitPercent
	UnitCount
	UnitYears
)

// Value is one labelled figure of a Result.
type Value struct {
	Label  string
	Amount float64
	Unit   Unit
}

// Result holds the figures computed for one configured item, in display order.
type Result struct {
	Name   string
	Kind   Kind
	Values []Value
	Notes  []string
}

func (r *Result) add(label string, amount float64, unit Unit) {
	r.Values = append(r.Values, Value{Label: label, Amount: amount, Unit: unit})
}

// Get returns the value with the given label.
func (r Result) Get(label string) (Value, bool) {
	for _, v := range r.Values {
		if v.Label == label {
			return v, true
		}
	}
	return Value{}, false
}

// Runner computes results, sharing one logger across the solvers it drives.
type Runner struct {
	logger   *zap.Logger
	solver   *xirr.Solver
	analyzer *loans.Analyzer
	schedule *loans.ScheduleGenerator
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:   logger,
		solver:   xirr.NewSolver(logger),
		analyzer: loans.NewAnalyzer(logger),
		schedule: loans.NewScheduleGenerator(logger),
	}
}

// Run processes every calculation in conf. Dates that default to "today" are
// anchored at conf.AsOf, or now when that is empty. The first failing item
// stops the run; results computed so far are returned with the error.
func (r *Runner) Run(conf *config.Configuration, now time.Time) ([]Result, error) {
	asOf, err := conf.AsOfDate(now)
	if err != nil {
		return nil, fmt.Errorf("asOf: %w", err)
	}

	var results []Result

	for _, set := range conf.XIRR {
		result, err := r.cashFlows(set)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	if len(conf.Deposits) > 0 {
		depositResults, err := r.deposits(conf.Deposits)
		if err != nil {
			return results, err
		}
		results = append(results, depositResults...)
	}

	for _, sip := range conf.SIPs {
		result, err := r.sip(sip)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	for _, loan := range conf.Loans {
		result, err := r.loan(loan, asOf)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	for _, s := range conf.Series {
		result, err := r.series(s, asOf)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	r.logger.Debug(fmt.Sprintf("computed %d results", len(results)),
		zap.String("op", "calculator.Run"),
		zap.String("as_of", datetime.Format(asOf)),
	)
	return results, nil
}

func (r *Runner) cashFlows(set config.CashFlowSet) (Result, error) {
	flows, err := set.ToCashFlows()
	if err != nil {
		return Result{}, err
	}
	guess := set.Guess
	if guess == 0 {
		guess = constants.DefaultGuess
	}

	solved, err := r.solver.Solve(flows, guess)
	if err != nil {
		return Result{}, fmt.Errorf("xirr %q: %w", set.Name, err)
	}

	result := Result{Name: set.Name, Kind: KindXIRR}
	var invested, returned float64
	for _, f := range flows {
		if f.Amount < 0 {
			invested -= f.Amount
		} else {
			returned += f.Amount
		}
	}
	result.add("invested", invested, UnitCurrency)
	result.add("returned", returned, UnitCurrency)
	result.add("xirr", solved.Rate, UnitPercent)
	result.add("iterations", float64(solved.Iterations), UnitCount)
	if !solved.Converged {
		result.Notes = append(result.Notes, "rate did not converge; showing the last estimate")
	}
	return result, nil
}

func (r *Runner) deposits(configured []config.Deposit) ([]Result, error) {
	fds := make([]deposits.FixedDeposit, 0, len(configured))
	principals := make(map[string]float64, len(configured))
	for _, d := range configured {
		fds = append(fds, d.ToFixedDeposit())
		principals[d.Name] = d.Principal
	}

	quotes, err := deposits.Compare(fds)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(quotes))
	for i, q := range quotes {
		result := Result{Name: q.Name, Kind: KindDeposit}
		result.add("principal", principals[q.Name], UnitCurrency)
		result.add("maturity", q.Maturity, UnitCurrency)
		result.add("interest", q.Interest, UnitCurrency)
		result.add("effective yield", q.EffectiveYield, UnitPercent)
		if i == 0 && len(quotes) > 1 {
			result.Notes = append(result.Notes, fmt.Sprintf("highest maturity of %d deposits", len(quotes)))
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) sip(s config.SIP) (Result, error) {
	fv, err := deposits.SIPFutureValue(s.Amount, s.Rate, s.PeriodsPerYear, s.Periods)
	if err != nil {
		return Result{}, fmt.Errorf("sip %q: %w", s.Name, err)
	}
	invested := deposits.SIPInvested(s.Amount, s.Periods)

	result := Result{Name: s.Name, Kind: KindSIP}
	result.add("invested", invested, UnitCurrency)
	result.add("future value", fv, UnitCurrency)
	result.add("gain", fv-invested, UnitCurrency)
	return result, nil
}

func (r *Runner) loan(l config.Loan, asOf time.Time) (Result, error) {
	state, err := l.ToLoanState()
	if err != nil {
		return Result{}, err
	}
	details, err := r.analyzer.Details(state, asOf)
	if err != nil {
		return Result{}, err
	}

	result := Result{Name: l.Name, Kind: KindLoan}
	result.add("paid installments", float64(details.PaidInstallments), UnitCount)
	result.add("total paid", details.TotalAmountPaid, UnitCurrency)
	result.add("interest paid", details.TotalInterestPaid, UnitCurrency)
	result.add("total payable", details.TotalAmountPayable, UnitCurrency)
	result.add("interest over loan", details.TotalInterestOverLoan, UnitCurrency)
	result.add("remaining amount", details.RemainingAmount, UnitCurrency)
	result.add("remaining months", float64(details.RemainingMonths), UnitCount)
	result.add("remaining years", details.RemainingYears, UnitYears)
	result.add("xirr", details.XIRR, UnitPercent)

	if l.TotalInstallments == 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("total installments approximated as %d", state.TotalInstallments))
	}
	if state.RemainingInstallments > 0 && !mathutil.IsZero(state.RemainingPrincipal) && !details.XIRRConverged {
		result.Notes = append(result.Notes, "rate did not converge; showing the last estimate")
	}

	if l.InterestRate > 0 {
		scheduled, err := loans.CalculateMonthlyPayment(state.LoanAmount, l.InterestRate, state.TotalInstallments)
		if err != nil {
			return Result{}, fmt.Errorf("loan %q: %w", l.Name, err)
		}
		result.add("scheduled emi", scheduled, UnitCurrency)
	}

	if l.InterestRate > 0 && !mathutil.IsZero(state.RemainingPrincipal) {
		projection, err := r.schedule.Project(state.RemainingPrincipal, l.InterestRate, state.EMI, asOf)
		if err != nil {
			return Result{}, fmt.Errorf("loan %q: %w", l.Name, err)
		}
		result.add("projected interest", projection.TotalInterest, UnitCurrency)
		result.add("projected months", float64(projection.Months()), UnitCount)
		result.Notes = append(result.Notes, fmt.Sprintf("projected payoff on %s", datetime.Format(projection.PayoffDate)))
		if projection.Months() != state.RemainingInstallments {
			result.Notes = append(result.Notes, fmt.Sprintf("projection needs %d payments but %d remain",
				projection.Months(), state.RemainingInstallments))
		}
	}
	return result, nil
}

func (r *Runner) series(s config.Series, asOf time.Time) (Result, error) {
	prices, err := s.PricePoints()
	if err != nil {
		return Result{}, err
	}

	result := Result{Name: s.Name, Kind: KindSeries}
	changes := series.ChangesOverWindows(prices)
	result.add("1 day", changes.Day1, UnitPercent)
	result.add("1 week", changes.Week1, UnitPercent)
	result.add("1 month", changes.Month1, UnitPercent)
	result.add("3 months", changes.Month3, UnitPercent)
	result.add("6 months", changes.Month6, UnitPercent)
	result.add("1 year", changes.Year1, UnitPercent)

	if s.VolatilityWindow > 0 {
		result.add("volatility", series.Volatility(prices, s.VolatilityWindow), UnitPercent)
	}

	if len(s.Volumes) > 0 {
		volumes, err := s.VolumePoints()
		if err != nil {
			return Result{}, err
		}
		window := s.VolumeWindow
		if window == 0 {
			window = len(volumes)
		}
		result.add("average volume", series.AverageVolume(volumes, window), UnitCount)
	}

	if s.RangeStart != "" {
		from, err := datetime.ParseDate(s.RangeStart)
		if err != nil {
			return Result{}, fmt.Errorf("series %q range start: %w", s.Name, err)
		}
		to := asOf
		if s.RangeEnd != "" {
			to, err = datetime.ParseDate(s.RangeEnd)
			if err != nil {
				return Result{}, fmt.Errorf("series %q range end: %w", s.Name, err)
			}
		}
		ret, err := series.Range(prices, from, to)
		if err != nil {
			return Result{}, fmt.Errorf("series %q: %w", s.Name, err)
		}
		result.add("range return", ret.AbsolutePercent, UnitPercent)
		result.add("range xirr", ret.XIRR, UnitPercent)
		result.Notes = append(result.Notes, fmt.Sprintf("range %s to %s", datetime.Format(ret.From), datetime.Format(ret.To)))
	}

	r.logger.Debug(fmt.Sprintf("computed statistics for series %s", s.Name),
		zap.String("op", "calculator.series"),
		zap.Int("points", len(prices)),
	)
	return result, nil
}
