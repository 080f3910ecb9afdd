// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	apperrors "github.com/orderdesk/etransfer/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// MonetaryAmount validates that a string parses as a non-negative decimal with
// at most two fraction digits, matching how order totals are stored.
var MonetaryAmount = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_amount_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return validation.NewError("validation_amount_format", "must be a decimal amount")
	}
	if amount.IsNegative() {
		return validation.NewError("validation_amount_negative", "must not be negative")
	}
	if amount.Exponent() < -2 {
		return validation.NewError("validation_amount_precision", "must have at most two decimal places")
	}
	return nil
})
