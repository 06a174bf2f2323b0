// Package constants provides shared constants for the home-affordability application.
package constants

import "time"

// Property transfer tax schedule
const (
	// PTTFirstThreshold is the upper bound of the first transfer tax bracket.
	PTTFirstThreshold = 200_000.0

	// PTTSecondThreshold is the upper bound of the second transfer tax bracket.
	PTTSecondThreshold = 2_000_000.0

	// PTTFirstRate applies to the portion of the price up to PTTFirstThreshold.
	PTTFirstRate = 0.01

	// PTTSecondRate applies between PTTFirstThreshold and PTTSecondThreshold.
	PTTSecondRate = 0.02

	// PTTTopRate applies to the portion of the price above PTTSecondThreshold.
	PTTTopRate = 0.03
)

// Closing cost defaults
const (
	// LegalFees is the flat legal fee charged on every purchase
	LegalFees = 1300.0

	// PropertyAppraisal is the lender appraisal fee
	PropertyAppraisal = 300.0

	// PropertySurvey is the land survey fee
	PropertySurvey = 500.0

	// MaxMoveInFee is the largest strata move-in fee expected
	MaxMoveInFee = 500.0

	// MaxHomeInspection is the largest home inspection fee expected
	MaxHomeInspection = 450.0

	// DefaultGST is the goods and services tax rate applied to new construction
	DefaultGST = 0.05
)

// Amortization policy defaults
const (
	// InsuredDownPaymentThreshold is the down payment ratio below which a
	// mortgage requires default insurance.
	InsuredDownPaymentThreshold = 0.2

	// InsuredMaxAmortization is the longest amortization, in years, allowed
	// for an insured mortgage.
	InsuredMaxAmortization = 25

	// UninsuredMaxAmortization is the longest amortization, in years, allowed
	// for an uninsured mortgage.
	UninsuredMaxAmortization = 35

	// MinAmortization is the shortest selectable amortization in years
	MinAmortization = 1

	// InitialAmortization is the amortization a fresh state starts with
	InitialAmortization = 25
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxScheduleYears is the longest loan an amortization schedule is built for
	MaxScheduleYears = 100
)

// Principal formula names
const (
	// PrincipalFormulaLegacy multiplies the price by zero for resale properties.
	PrincipalFormulaLegacy = "legacy"

	// PrincipalFormulaCorrected keeps the full price for resale properties.
	PrincipalFormulaCorrected = "corrected"
)

// Property and ownership types
const (
	PropertyTypeLand   = "LAND"
	PropertyTypeStrata = "STRATA"

	OwnershipNewConstruction = "NEW-CONSTRUCTION"
	OwnershipResale          = "RESALE"

	DownPaymentAmount     = "AMOUNT"
	DownPaymentPercentage = "PERCENTAGE"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides, e.g. AFFORDABILITY_GST.
	EnvPrefix = "AFFORDABILITY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultReadTimeout bounds reading a whole request
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing a response
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout bounds keep-alive connections between requests
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout bounds draining in-flight requests on shutdown
	DefaultShutdownTimeout = 15 * time.Second
)

// Price search defaults
const (
	// DefaultSearchMaxPrice is the highest purchase price the budget search considers
	DefaultSearchMaxPrice = 10_000_000.0

	// DefaultSearchTolerance is the price interval, in dollars, at which the search stops
	DefaultSearchTolerance = 1.0

	// DefaultSearchMaxIterations bounds the number of bisection steps
	DefaultSearchMaxIterations = 100
)
