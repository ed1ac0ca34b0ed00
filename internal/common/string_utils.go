// Package common provides shared text helpers for comparison kinds, operand
// descriptions and typed scalar parsing.
package common

import (
	"fmt"
)

// FormatBinaryOperation formats a binary operation string representation
// Pattern: (left operator right).
func FormatBinaryOperation(left, operator, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, operator, right)
}

// FormatColumnRef formats a column reference with its element type
// Pattern: name[type].
func FormatColumnRef(name, typeName string) string {
	if name == "" {
		return fmt.Sprintf("[%s]", typeName)
	}
	return fmt.Sprintf("%s[%s]", name, typeName)
}
