// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/iwvelando/home-affordability/internal/affordability"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the affordability calculator.
type Configuration struct {
	Logging      LoggingConfig      `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig       `yaml:"output,omitempty" mapstructure:"output"`
	Principal    PrincipalConfig    `yaml:"principal" mapstructure:"principal"`
	GST          float64            `yaml:"gst" mapstructure:"gst"`
	PropertyType string             `yaml:"propertyType" mapstructure:"propertyType"`
	Amortization AmortizationConfig `yaml:"amortization" mapstructure:"amortization"`
	ClosingCosts ClosingCostsConfig `yaml:"closingCosts" mapstructure:"closingCosts"`
	Tax          TaxConfig          `yaml:"tax" mapstructure:"tax"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, json
}

// PrincipalConfig selects the principal formula.
type PrincipalConfig struct {
	Formula string `yaml:"formula" mapstructure:"formula"` // legacy, corrected
}

// AmortizationConfig holds the mortgage insurance amortization rule.
type AmortizationConfig struct {
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold"`
	InsuredMax   int     `yaml:"insuredMax" mapstructure:"insuredMax"`
	UninsuredMax int     `yaml:"uninsuredMax" mapstructure:"uninsuredMax"`
	Min          int     `yaml:"min" mapstructure:"min"`
	Initial      int     `yaml:"initial" mapstructure:"initial"`
}

// ClosingCostsConfig holds the fixed fees used by the upfront cost range.
type ClosingCostsConfig struct {
	LegalFees      float64 `yaml:"legalFees" mapstructure:"legalFees"`
	Appraisal      float64 `yaml:"appraisal" mapstructure:"appraisal"`
	Survey         float64 `yaml:"survey" mapstructure:"survey"`
	MoveInFee      float64 `yaml:"moveInFee" mapstructure:"moveInFee"`
	HomeInspection float64 `yaml:"homeInspection" mapstructure:"homeInspection"`
}

// TaxConfig holds the property transfer tax schedule.
type TaxConfig struct {
	Brackets []BracketConfig `yaml:"brackets" mapstructure:"brackets"`
}

// BracketConfig is one bracket of the schedule. An unbounded bracket catches
// all remaining value and should be last.
type BracketConfig struct {
	Amount    float64 `yaml:"amount,omitempty" mapstructure:"amount"`
	Factor    float64 `yaml:"factor" mapstructure:"factor"`
	Unbounded bool    `yaml:"unbounded,omitempty" mapstructure:"unbounded"`
}

// IsUnbounded reports whether the bracket is flagged unbounded or has an
// infinite width (YAML .inf).
func (b BracketConfig) IsUnbounded() bool {
	return b.Unbounded || math.IsInf(b.Amount, 1)
}

// Default returns the built-in configuration. It does not read the
// environment; use LoadDefaults for that.
func Default() *Configuration {
	return &Configuration{
		Logging:      LoggingConfig{Level: "info", Format: "json"},
		Output:       OutputConfig{Format: constants.OutputFormatPretty},
		Principal:    PrincipalConfig{Formula: constants.PrincipalFormulaLegacy},
		GST:          constants.DefaultGST,
		PropertyType: constants.PropertyTypeLand,
		Amortization: AmortizationConfig{
			Threshold:    constants.InsuredDownPaymentThreshold,
			InsuredMax:   constants.InsuredMaxAmortization,
			UninsuredMax: constants.UninsuredMaxAmortization,
			Min:          constants.MinAmortization,
			Initial:      constants.InitialAmortization,
		},
		ClosingCosts: ClosingCostsConfig{
			LegalFees:      constants.LegalFees,
			Appraisal:      constants.PropertyAppraisal,
			Survey:         constants.PropertySurvey,
			MoveInFee:      constants.MaxMoveInFee,
			HomeInspection: constants.MaxHomeInspection,
		},
		Tax: TaxConfig{Brackets: []BracketConfig{
			{Amount: constants.PTTFirstThreshold, Factor: constants.PTTFirstRate},
			{Amount: constants.PTTSecondThreshold - constants.PTTFirstThreshold, Factor: constants.PTTSecondRate},
			{Unbounded: true, Factor: constants.PTTTopRate},
		}},
	}
}

// LoadDefaults returns the built-in configuration with AFFORDABILITY_*
// environment overrides applied, for when there is no configuration file.
func LoadDefaults() (*Configuration, error) {
	return decode(newViper())
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("principal.formula", constants.PrincipalFormulaLegacy)
	v.SetDefault("gst", constants.DefaultGST)
	v.SetDefault("propertyType", constants.PropertyTypeLand)
	v.SetDefault("amortization.threshold", constants.InsuredDownPaymentThreshold)
	v.SetDefault("amortization.insuredMax", constants.InsuredMaxAmortization)
	v.SetDefault("amortization.uninsuredMax", constants.UninsuredMaxAmortization)
	v.SetDefault("amortization.min", constants.MinAmortization)
	v.SetDefault("amortization.initial", constants.InitialAmortization)
	v.SetDefault("closingCosts.legalFees", constants.LegalFees)
	v.SetDefault("closingCosts.appraisal", constants.PropertyAppraisal)
	v.SetDefault("closingCosts.survey", constants.PropertySurvey)
	v.SetDefault("closingCosts.moveInFee", constants.MaxMoveInFee)
	v.SetDefault("closingCosts.homeInspection", constants.MaxHomeInspection)
	v.SetDefault("tax.brackets", []map[string]interface{}{
		{"amount": constants.PTTFirstThreshold, "factor": constants.PTTFirstRate},
		{"amount": constants.PTTSecondThreshold - constants.PTTFirstThreshold, "factor": constants.PTTSecondRate},
		{"unbounded": true, "factor": constants.PTTTopRate},
	})
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Validate returns an error for configuration the calculator cannot run with.
func (c *Configuration) Validate() error {
	if _, err := c.PrincipalMode(); err != nil {
		return err
	}
	if err := validation.ValidatePropertyType(c.PropertyType); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid amortization settings: %w", err)
	}
	if len(c.Tax.Brackets) == 0 {
		return fmt.Errorf("tax schedule must contain at least one bracket")
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for i, bracket := range c.Tax.Brackets {
		if bracket.Factor < 0 || bracket.Factor > 1 {
			warnings = append(warnings, fmt.Sprintf("Tax bracket %d has factor %.4f outside [0, 1]", i+1, bracket.Factor))
		}
		if bracket.IsUnbounded() && i != len(c.Tax.Brackets)-1 {
			warnings = append(warnings, fmt.Sprintf("Tax bracket %d is unbounded but is not last - later brackets never apply", i+1))
		}
		if !bracket.IsUnbounded() && bracket.Amount <= 0 {
			warnings = append(warnings, fmt.Sprintf("Tax bracket %d has non-positive width %.2f", i+1, bracket.Amount))
		}
	}
	if n := len(c.Tax.Brackets); n > 0 && !c.Tax.Brackets[n-1].IsUnbounded() {
		warnings = append(warnings, "Last tax bracket is bounded - value above the schedule is untaxed")
	}

	if c.Amortization.Threshold <= 0 || c.Amortization.Threshold > 1 {
		warnings = append(warnings, fmt.Sprintf("Amortization threshold %.4f is outside (0, 1]", c.Amortization.Threshold))
	}
	if c.Amortization.InsuredMax > c.Amortization.UninsuredMax {
		warnings = append(warnings, fmt.Sprintf("Insured maximum amortization (%d) exceeds uninsured maximum (%d)",
			c.Amortization.InsuredMax, c.Amortization.UninsuredMax))
	}
	if err := validation.ValidateRate("GST rate", c.GST); err != nil {
		warnings = append(warnings, err.Error())
	}

	return warnings
}

// Policy converts the amortization settings.
func (c *Configuration) Policy() affordability.Policy {
	return affordability.Policy{
		Threshold:    c.Amortization.Threshold,
		InsuredMax:   c.Amortization.InsuredMax,
		UninsuredMax: c.Amortization.UninsuredMax,
		Min:          c.Amortization.Min,
		Initial:      c.Amortization.Initial,
	}
}

// Schedule converts the tax brackets.
func (c *Configuration) Schedule() formulas.Schedule {
	schedule := make(formulas.Schedule, 0, len(c.Tax.Brackets))
	for _, bracket := range c.Tax.Brackets {
		amount := bracket.Amount
		if bracket.IsUnbounded() {
			amount = math.Inf(1)
		}
		schedule = append(schedule, formulas.Bracket{Amount: amount, Factor: bracket.Factor})
	}
	return schedule
}

// ClosingCostTable converts the closing cost settings.
func (c *Configuration) ClosingCostTable() formulas.ClosingCosts {
	return formulas.ClosingCosts{
		LegalFees:         c.ClosingCosts.LegalFees,
		PropertyAppraisal: c.ClosingCosts.Appraisal,
		PropertySurvey:    c.ClosingCosts.Survey,
		MaxMoveInFee:      c.ClosingCosts.MoveInFee,
		MaxHomeInspection: c.ClosingCosts.HomeInspection,
	}
}

// PrincipalMode parses the configured principal formula.
func (c *Configuration) PrincipalMode() (affordability.PrincipalMode, error) {
	return affordability.ParsePrincipalMode(c.Principal.Formula)
}

// Calculator builds the calculator described by the configuration. Call
// Validate first; an unknown principal formula falls back to legacy.
func (c *Configuration) Calculator() affordability.Calculator {
	mode, err := c.PrincipalMode()
	if err != nil {
		mode = affordability.PrincipalLegacy
	}
	return affordability.Calculator{
		Policy:        c.Policy(),
		Schedule:      c.Schedule(),
		GST:           c.GST,
		PrincipalMode: mode,
	}
}
