package config

import (
	"fmt"

	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/deposits"
	"github.com/iwvelando/finance-tracker/pkg/loans"
	"github.com/iwvelando/finance-tracker/pkg/series"
	"github.com/iwvelando/finance-tracker/pkg/xirr"
)

// ToCashFlows parses the set's dates into solver cash flows.
func (set CashFlowSet) ToCashFlows() ([]xirr.CashFlow, error) {
	flows := make([]xirr.CashFlow, 0, len(set.CashFlows))
	for i, cf := range set.CashFlows {
		date, err := datetime.ParseDate(cf.Date)
		if err != nil {
			return nil, fmt.Errorf("xirr %q cash flow %d: %w", set.Name, i, err)
		}
		flows = append(flows, xirr.CashFlow{Amount: cf.Amount, Date: date})
	}
	return flows, nil
}

// ToFixedDeposit converts a configured deposit.
func (d Deposit) ToFixedDeposit() deposits.FixedDeposit {
	return deposits.FixedDeposit{
		Name:                 d.Name,
		Principal:            d.Principal,
		AnnualRatePercent:    d.Rate,
		Years:                d.Years,
		CompoundingFrequency: d.Frequency,
	}
}

// ToLoanState converts a configured loan. A missing total installment count
// is estimated with loans.ApproximateTotalInstallments, never below the
// remaining count.
func (l Loan) ToLoanState() (loans.LoanState, error) {
	total := l.TotalInstallments
	if total == 0 {
		approx, err := loans.ApproximateTotalInstallments(l.LoanAmount, l.EMI)
		if err != nil {
			return loans.LoanState{}, fmt.Errorf("loan %q: %w", l.Name, err)
		}
		total = approx
		if total < l.RemainingInstallments {
			total = l.RemainingInstallments
		}
	}
	return loans.LoanState{
		Name:                  l.Name,
		LoanAmount:            l.LoanAmount,
		TotalInstallments:     total,
		RemainingInstallments: l.RemainingInstallments,
		RemainingPrincipal:    l.RemainingPrincipal,
		EMI:                   l.EMI,
	}, nil
}

// PricePoints parses the series prices.
func (s Series) PricePoints() ([]series.PricePoint, error) {
	points := make([]series.PricePoint, 0, len(s.Prices))
	for i, p := range s.Prices {
		date, err := datetime.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("series %q price %d: %w", s.Name, i, err)
		}
		points = append(points, series.PricePoint{Date: date, Value: p.Value})
	}
	return points, nil
}

// VolumePoints parses the series volumes.
func (s Series) VolumePoints() ([]series.VolumePoint, error) {
	points := make([]series.VolumePoint, 0, len(s.Volumes))
	for i, v := range s.Volumes {
		date, err := datetime.ParseDate(v.Date)
		if err != nil {
			return nil, fmt.Errorf("series %q volume %d: %w", s.Name, i, err)
		}
		points = append(points, series.VolumePoint{Date: date, Volume: v.Volume})
	}
	return points, nil
}
