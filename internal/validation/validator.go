// Package validation provides input validation for comparison operations.
// Validators are small reusable checks that run before any kernel touches
// the data, so a failing comparison never allocates an output mask.
package validation

import (
	"fmt"

	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/series"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// Comparable reports whether values of the two element types can be compared.
// Numeric types compare with any numeric type, Utf8 only with Utf8 and
// Boolean with nothing.
func Comparable(left, right series.ElementType) bool {
	switch {
	case left == series.Boolean || right == series.Boolean:
		return false
	case left.IsNumeric() && right.IsNumeric():
		return true
	default:
		return left == series.Utf8 && right == series.Utf8
	}
}

// ComparableValidator validates that two element types share a comparison domain
type ComparableValidator struct {
	left  series.ElementType
	right series.ElementType
	op    string
}

// NewComparableValidator creates a validator for element type compatibility
func NewComparableValidator(left, right series.ElementType, op string) *ComparableValidator {
	return &ComparableValidator{
		left:  left,
		right: right,
		op:    op,
	}
}

// Validate checks that both types are supported and comparable
func (v *ComparableValidator) Validate() error {
	for _, t := range []series.ElementType{v.left, v.right} {
		if !t.Valid() {
			return cmperrors.NewUnsupportedTypeError(v.op, t.String())
		}
	}
	if !Comparable(v.left, v.right) {
		return cmperrors.NewTypeMismatchError(v.op, v.left.String(), v.right.String())
	}
	return nil
}

// LengthValidator validates that two series have the same number of rows
type LengthValidator struct {
	left  int
	right int
	op    string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(left, right int, op string) *LengthValidator {
	return &LengthValidator{
		left:  left,
		right: right,
		op:    op,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.left != v.right {
		return cmperrors.NewLengthMismatchError(v.op, v.left, v.right)
	}
	return nil
}

// NotReleasedValidator rejects nil or released series
type NotReleasedValidator struct {
	s  *series.Series
	op string
}

// NewNotReleasedValidator creates a validator for series liveness
func NewNotReleasedValidator(s *series.Series, op string) *NotReleasedValidator {
	return &NotReleasedValidator{s: s, op: op}
}

// Validate checks the series can still be read
func (v *NotReleasedValidator) Validate() error {
	if v.s == nil {
		return cmperrors.NewInvalidInputError(v.op, "nil series")
	}
	if v.s.Released() {
		return cmperrors.NewInvalidInputError(v.op, fmt.Sprintf("series '%s' has been released", v.s.Name()))
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateComparable is a convenience function for type compatibility validation
func ValidateComparable(left, right series.ElementType, op string) error {
	return NewComparableValidator(left, right, op).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(left, right int, op string) error {
	return NewLengthValidator(left, right, op).Validate()
}
