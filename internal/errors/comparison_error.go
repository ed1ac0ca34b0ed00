// Package errors provides standardized error types for comparison operations.
// This package defines ComparisonError for consistent error handling across
// all public APIs, with operation context, an error kind and wrapping support.
package errors

import (
	"fmt"
)

// ErrorKind classifies a ComparisonError so callers can tell failures apart
// without matching on message text.
type ErrorKind int

const (
	// KindUnknown is the zero value and never produced by this module.
	KindUnknown ErrorKind = iota
	// KindTypeMismatch means the operand element types are not comparable.
	KindTypeMismatch
	// KindLengthMismatch means two series operands differ in length.
	KindLengthMismatch
	// KindOverflow means a lossless widening could not be performed.
	KindOverflow
	// KindInvalidInput covers malformed arguments (nil operands, bad kinds).
	KindInvalidInput
	// KindUnsupportedType covers element types outside the supported set.
	KindUnsupportedType
	// KindInternal wraps unexpected failures from collaborators.
	KindInternal
)

var kindNames = map[ErrorKind]string{
	KindUnknown:         "unknown",
	KindTypeMismatch:    "type mismatch",
	KindLengthMismatch:  "length mismatch",
	KindOverflow:        "overflow",
	KindInvalidInput:    "invalid input",
	KindUnsupportedType: "unsupported type",
	KindInternal:        "internal",
}

// String returns the human readable name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_error_kind(%d)", int(k))
}

// ComparisonError represents standardized errors across all comparison operations
type ComparisonError struct {
	Op      string    // Operation name (e.g., "eq", "gt_eq", "series creation")
	Column  string    // Column name if applicable
	Kind    ErrorKind // Failure classification
	Message string    // Human-readable error description
	Cause   error     // Underlying error cause
}

// Error implements the error interface
func (e *ComparisonError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s: %s", e.Op, e.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *ComparisonError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// A target that carries only a Kind (such as ErrTypeMismatch) matches every
// error of that kind.
func (e *ComparisonError) Is(target error) bool {
	ce, ok := target.(*ComparisonError)
	if !ok {
		return false
	}
	if ce.Op == "" && ce.Column == "" && ce.Message == "" {
		return e.Kind == ce.Kind
	}
	return e.Kind == ce.Kind && e.Op == ce.Op && e.Column == ce.Column && e.Message == ce.Message
}

// Predefined kind sentinels for errors.Is
var (
	// ErrTypeMismatch matches every type mismatch failure
	ErrTypeMismatch = &ComparisonError{Kind: KindTypeMismatch}

	// ErrLengthMismatch matches every length mismatch failure
	ErrLengthMismatch = &ComparisonError{Kind: KindLengthMismatch}

	// ErrOverflow matches every failed lossless widening
	ErrOverflow = &ComparisonError{Kind: KindOverflow}

	// ErrInvalidInput matches every invalid argument failure
	ErrInvalidInput = &ComparisonError{Kind: KindInvalidInput}

	// ErrUnsupportedType matches every unsupported element type failure
	ErrUnsupportedType = &ComparisonError{Kind: KindUnsupportedType}
)

// Common error constructors for consistent error creation

// NewTypeMismatchError creates an error for operands whose types do not compare
func NewTypeMismatchError(op, leftType, rightType string) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Kind:    KindTypeMismatch,
		Message: fmt.Sprintf("cannot compare %s with %s", leftType, rightType),
	}
}

// NewLengthMismatchError creates an error for series operands of different lengths
func NewLengthMismatchError(op string, left, right int) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Kind:    KindLengthMismatch,
		Message: fmt.Sprintf("series lengths differ: %d != %d", left, right),
	}
}

// NewOverflowError creates an error for a value that cannot be widened losslessly
func NewOverflowError(op, column, message string) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Column:  column,
		Kind:    KindOverflow,
		Message: message,
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Kind:    KindInvalidInput,
		Message: message,
	}
}

// NewUnsupportedTypeError creates an error for unsupported data types
func NewUnsupportedTypeError(op, typeName string) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Kind:    KindUnsupportedType,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *ComparisonError {
	return &ComparisonError{
		Op:      op,
		Kind:    KindInternal,
		Message: "internal error occurred",
		Cause:   cause,
	}
}
