// Package constants provides shared constants for the finance-tracker application.
package constants

// DateLayout is the format expected in config files and API payloads and is
// also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the day-count basis used to annualize cash-flow offsets
	DaysPerYear = 365.0

	// DecimalPrecision is the number of decimal places kept for currency rounding
	DecimalPrecision = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ApproximateInstallmentFactor is the legacy EMI fraction used to guess a
	// loan's total installments when the real count is unknown.
	ApproximateInstallmentFactor = 0.6
)

// Solver constants. Changing any of these changes previously saved rates.
const (
	// MaxIterations is the Newton-Raphson iteration cap
	MaxIterations = 100

	// NPVTolerance is the absolute net present value at which the solver stops
	NPVTolerance = 1e-4

	// DefaultGuess is the starting rate (decimal) for the solver
	DefaultGuess = 0.10
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DefaultCurrency is the ISO 4217 code used for currency display
	DefaultCurrency = "INR"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
