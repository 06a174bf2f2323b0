// Package validation checks the enumerated strings accepted by configuration
// and the API.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/home-affordability/pkg/constants"
)

// oneOf matches value case-sensitively against the allowed values.
func oneOf(what, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("expected %s of %s or %s, got %s", what, allowed[0], allowed[1], value)
}

// ValidateOutputFormat checks if the output format is pretty or json.
func ValidateOutputFormat(format string) error {
	return oneOf("output format", format, constants.OutputFormatPretty, constants.OutputFormatJSON)
}

// ValidatePropertyType checks that the property type is LAND or STRATA.
func ValidatePropertyType(propertyType string) error {
	return oneOf("property type", propertyType, constants.PropertyTypeLand, constants.PropertyTypeStrata)
}

// ValidateOwnership checks that the ownership is NEW-CONSTRUCTION or RESALE.
func ValidateOwnership(ownership string) error {
	return oneOf("ownership", ownership, constants.OwnershipNewConstruction, constants.OwnershipResale)
}

// ValidateDownPaymentKind checks that the down payment kind is AMOUNT or PERCENTAGE.
func ValidateDownPaymentKind(kind string) error {
	return oneOf("down payment kind", kind, constants.DownPaymentAmount, constants.DownPaymentPercentage)
}

// ValidateRate checks that a rate such as GST is a fraction in [0, 1].
func ValidateRate(name string, rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, rate)
	}
	return nil
}
