// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// EnvPrefix prefixes environment variables that override config keys, e.g.
// FINANCE_TRACKER_OUTPUT_FORMAT=csv.
const EnvPrefix = "FINANCE_TRACKER"

// Configuration holds all configuration for finance-tracker.
type Configuration struct {
	// AsOf anchors calculations that start "today", such as loan rates.
	// Empty means the current date.
	AsOf     string        `yaml:"asOf,omitempty" json:"asOf,omitempty"`
	Logging  LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
	XIRR     []CashFlowSet `yaml:"xirr,omitempty" json:"xirr,omitempty"`
	Deposits []Deposit     `yaml:"deposits,omitempty" json:"deposits,omitempty"`
	SIPs     []SIP         `yaml:"sips,omitempty" json:"sips,omitempty"`
	Loans    []Loan        `yaml:"loans,omitempty" json:"loans,omitempty"`
	Series   []Series      `yaml:"series,omitempty" json:"series,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty" json:"format,omitempty"`     // pretty, csv
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty"` // ISO 4217 code
}

// CashFlow is one dated amount; negative for money paid in.
type CashFlow struct {
	Amount float64 `yaml:"amount" json:"amount"`
	Date   string  `yaml:"date" json:"date"`
}

// CashFlowSet is a named list of cash flows to compute a rate for.
type CashFlowSet struct {
	Name      string     `yaml:"name" json:"name"`
	Guess     float64    `yaml:"guess,omitempty" json:"guess,omitempty"` // decimal; 0 means the default
	CashFlows []CashFlow `yaml:"cashFlows" json:"cashFlows"`
}

// Deposit is a fixed deposit.
type Deposit struct {
	Name      string  `yaml:"name" json:"name"`
	Principal float64 `yaml:"principal" json:"principal"`
	Rate      float64 `yaml:"rate" json:"rate"` // annual percent
	Years     float64 `yaml:"years" json:"years"`
	Frequency int     `yaml:"frequency" json:"frequency"` // compounding periods per year
}

// SIP is a systematic investment plan.
type SIP struct {
	Name           string  `yaml:"name" json:"name"`
	Amount         float64 `yaml:"amount" json:"amount"`
	Rate           float64 `yaml:"rate" json:"rate"` // expected annual percent
	PeriodsPerYear int     `yaml:"periodsPerYear" json:"periodsPerYear"`
	Periods        int     `yaml:"periods" json:"periods"`
}

// Loan is a running loan. InterestRate is optional and enables the payoff
// projection.
type Loan struct {
	Name                  string  `yaml:"name" json:"name"`
	LoanAmount            float64 `yaml:"loanAmount" json:"loanAmount"`
	TotalInstallments     int     `yaml:"totalInstallments,omitempty" json:"totalInstallments,omitempty"`
	RemainingInstallments int     `yaml:"remainingInstallments" json:"remainingInstallments"`
	RemainingPrincipal    float64 `yaml:"remainingPrincipal" json:"remainingPrincipal"`
	EMI                   float64 `yaml:"emi" json:"emi"`
	InterestRate          float64 `yaml:"interestRate,omitempty" json:"interestRate,omitempty"`
}

// PricePoint is a dated NAV or closing price.
type PricePoint struct {
	Date  string  `yaml:"date" json:"date"`
	Value float64 `yaml:"value" json:"value"`
}

// VolumePoint is a dated traded volume.
type VolumePoint struct {
	Date   string `yaml:"date" json:"date"`
	Volume int64  `yaml:"volume" json:"volume"`
}

// Series is a price history, with optional volumes, to compute statistics on.
type Series struct {
	Name             string        `yaml:"name" json:"name"`
	Prices           []PricePoint  `yaml:"prices" json:"prices"`
	Volumes          []VolumePoint `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	VolatilityWindow int           `yaml:"volatilityWindow,omitempty" json:"volatilityWindow,omitempty"` // days
	VolumeWindow     int           `yaml:"volumeWindow,omitempty" json:"volumeWindow,omitempty"`         // days
	RangeStart       string        `yaml:"rangeStart,omitempty" json:"rangeStart,omitempty"`
	RangeEnd         string        `yaml:"rangeEnd,omitempty" json:"rangeEnd,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Scalars that may come from the environment alone need a registered key.
	for _, key := range []string{"asOf", "logging.level", "logging.format", "logging.outputFile", "output.format", "output.currency"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	hooks := mapstructure.ComposeDecodeHookFunc(
		dateStringHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&configuration, viper.DecodeHook(hooks)); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// dateStringHook turns unquoted YAML dates, which the parser hands over as
// time.Time, back into DateLayout strings.
func dateStringHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.Format(DateLayout), nil
	}
	return data, nil
}

// AsOfDate resolves AsOf, falling back to the day of now.
func (c *Configuration) AsOfDate(now time.Time) (time.Time, error) {
	if c.AsOf == "" {
		return datetime.Day(now), nil
	}
	return datetime.ParseDate(c.AsOf)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for entries that will compute but look like mistakes.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.AsOf != "" {
		if _, err := datetime.ParseDate(c.AsOf); err != nil {
			warnings = append(warnings, fmt.Sprintf("asOf %q is not a %s date", c.AsOf, DateLayout))
		}
	}

	names := make(map[string]int)
	note := func(kind, name string) {
		key := kind + "/" + name
		names[key]++
		if names[key] == 2 {
			warnings = append(warnings, fmt.Sprintf("%s name %q is used more than once", kind, name))
		}
	}

	for _, set := range c.XIRR {
		note("xirr", set.Name)
		var in, out bool
		for _, cf := range set.CashFlows {
			if cf.Amount < 0 {
				out = true
			} else {
				in = true
			}
		}
		if !(in && out) {
			warnings = append(warnings, fmt.Sprintf("xirr %q needs both an outflow and an inflow to produce a meaningful rate", set.Name))
		}
	}

	for _, d := range c.Deposits {
		note("deposit", d.Name)
	}

	for _, s := range c.SIPs {
		note("sip", s.Name)
	}

	for _, l := range c.Loans {
		note("loan", l.Name)
		if l.TotalInstallments == 0 {
			warnings = append(warnings, fmt.Sprintf("loan %q has no totalInstallments; an approximation will be used", l.Name))
		}
		if l.RemainingPrincipal > l.LoanAmount {
			warnings = append(warnings, fmt.Sprintf("loan %q remaining principal exceeds the loan amount", l.Name))
		}
	}

	for _, s := range c.Series {
		note("series", s.Name)
		if len(s.Prices) < 2 {
			warnings = append(warnings, fmt.Sprintf("series %q has fewer than 2 prices; changes will be zero", s.Name))
		}
	}

	return warnings
}
