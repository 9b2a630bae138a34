package config

import (
	"errors"
	"testing"

	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/validation"
)

func TestToCashFlows(t *testing.T) {
	set := CashFlowSet{
		Name: "fund",
		CashFlows: []CashFlow{
			{Amount: -1000, Date: "2023-01-01"},
			{Amount: 1100, Date: "2024-01-01"},
		},
	}

	flows, err := set.ToCashFlows()
	if err != nil {
		t.Fatalf("ToCashFlows() error = %v", err)
	}
	if len(flows) != 2 {
		t.Fatalf("expected 2 flows, got %d", len(flows))
	}
	if flows[0].Amount != -1000 || datetime.Format(flows[1].Date) != "2024-01-01" {
		t.Errorf("unexpected flows %+v", flows)
	}

	set.CashFlows[1].Date = "January 2024"
	if _, err := set.ToCashFlows(); err == nil {
		t.Error("ToCashFlows() expected error for a malformed date")
	}
}

func TestToFixedDeposit(t *testing.T) {
	d := Deposit{Name: "fd", Principal: 10000, Rate: 6.5, Years: 5, Frequency: 12}
	fd := d.ToFixedDeposit()
	if fd.Name != "fd" || fd.Principal != 10000 || fd.AnnualRatePercent != 6.5 || fd.Years != 5 || fd.CompoundingFrequency != 12 {
		t.Errorf("unexpected fixed deposit %+v", fd)
	}
}

func TestToLoanState(t *testing.T) {
	tests := []struct {
		name          string
		loan          Loan
		expectedTotal int
		wantError     bool
	}{
		{
			name:          "Explicit total",
			loan:          Loan{Name: "home", LoanAmount: 500000, TotalInstallments: 60, RemainingInstallments: 36, RemainingPrincipal: 350000, EMI: 15000},
			expectedTotal: 60,
		},
		{
			name:          "Approximated total",
			loan:          Loan{Name: "car", LoanAmount: 500000, RemainingInstallments: 36, RemainingPrincipal: 350000, EMI: 15000},
			expectedTotal: 56,
		},
		{
			name:          "Approximation raised to remaining",
			loan:          Loan{Name: "short", LoanAmount: 5000, RemainingInstallments: 12, RemainingPrincipal: 4000, EMI: 1000},
			expectedTotal: 12,
		},
		{
			name:      "Approximation needs an emi",
			loan:      Loan{Name: "broken", LoanAmount: 9000, RemainingInstallments: 12},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := tt.loan.ToLoanState()
			if tt.wantError {
				if !errors.Is(err, validation.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToLoanState() error = %v", err)
			}
			if state.TotalInstallments != tt.expectedTotal {
				t.Errorf("TotalInstallments = %d, expected %d", state.TotalInstallments, tt.expectedTotal)
			}
			if state.RemainingInstallments != tt.loan.RemainingInstallments || state.EMI != tt.loan.EMI {
				t.Errorf("unexpected loan state %+v", state)
			}
		})
	}
}

func TestSeriesPoints(t *testing.T) {
	s := Series{
		Name:    "fund",
		Prices:  []PricePoint{{Date: "2024-01-01", Value: 100}, {Date: "2024-01-02", Value: 101}},
		Volumes: []VolumePoint{{Date: "2024-01-02", Volume: 5000}},
	}

	prices, err := s.PricePoints()
	if err != nil || len(prices) != 2 || prices[1].Value != 101 {
		t.Errorf("PricePoints() = %+v, %v", prices, err)
	}
	volumes, err := s.VolumePoints()
	if err != nil || len(volumes) != 1 || volumes[0].Volume != 5000 {
		t.Errorf("VolumePoints() = %+v, %v", volumes, err)
	}

	s.Prices[0].Date = "2024/01/01"
	if _, err := s.PricePoints(); err == nil {
		t.Error("PricePoints() expected error for a malformed date")
	}
	s.Volumes[0].Date = ""
	if _, err := s.VolumePoints(); err == nil {
		t.Error("VolumePoints() expected error for an empty date")
	}
}
