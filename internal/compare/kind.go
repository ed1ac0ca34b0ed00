// Package compare implements element-wise relational comparison of series.
//
// A Dispatcher validates an operand pair, resolves the common domain both
// sides widen into, and scans the rows into a new Boolean mask. Rows where
// either side is null are null in the mask. Float comparisons follow IEEE
// rules, so NaN is unequal to everything and never less or greater.
package compare

import (
	"fmt"

	"github.com/paveg/relcmp/internal/common"
)

// Kind is one of the six relational comparisons.
type Kind uint8

// Comparison kinds. The zero value is not a valid kind.
const (
	Equal Kind = iota + 1
	NotEqual
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
)

// AllKinds lists every comparison kind in declaration order.
var AllKinds = []Kind{Equal, NotEqual, GreaterThan, GreaterOrEqual, LessThan, LessOrEqual}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k >= Equal && k <= LessOrEqual
}

// String returns the short operation name: eq, neq, gt, gt_eq, lt or lt_eq.
func (k Kind) String() string {
	return common.FormatComparisonKind(int(k))
}

// Symbol returns the operator symbol, e.g. ">=".
func (k Kind) Symbol() string {
	return common.FormatComparisonSymbol(int(k))
}

// Negate returns the kind whose result is the logical complement of k for
// ordered operands.
func (k Kind) Negate() Kind {
	switch k {
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case GreaterThan:
		return LessOrEqual
	case GreaterOrEqual:
		return LessThan
	case LessThan:
		return GreaterOrEqual
	case LessOrEqual:
		return GreaterThan
	}
	return k
}

// Flip returns the kind that gives the same result with the operands swapped.
func (k Kind) Flip() Kind {
	switch k {
	case GreaterThan:
		return LessThan
	case GreaterOrEqual:
		return LessOrEqual
	case LessThan:
		return GreaterThan
	case LessOrEqual:
		return GreaterOrEqual
	}
	return k
}

// ParseKind parses a kind from its name, symbol or a common alias.
func ParseKind(s string) (Kind, error) {
	v, ok := common.ParseComparisonKind(s)
	if !ok {
		return 0, fmt.Errorf("unknown comparison %q", s)
	}
	return Kind(v), nil
}
