package compare

import "golang.org/x/exp/constraints"

// ordering is the outcome of comparing two values. Each outcome is a single
// bit so a Kind can be described by the set of outcomes it accepts.
type ordering uint8

const (
	less ordering = 1 << iota
	equal
	greater
	unordered // at least one side is NaN
)

var accepted = [...]ordering{
	Equal:          equal,
	NotEqual:       less | greater | unordered,
	GreaterThan:    greater,
	GreaterOrEqual: greater | equal,
	LessThan:       less,
	LessOrEqual:    less | equal,
}

// accepts reports whether k holds for the outcome o.
func (k Kind) accepts(o ordering) bool {
	return k.Valid() && accepted[k]&o != 0
}

func compareOrdered[T constraints.Ordered](a, b T) ordering {
	switch {
	case a < b:
		return less
	case a > b:
		return greater
	case a == b:
		return equal
	default:
		return unordered
	}
}

// predicate returns the native operator for k. For floats the operators
// already implement IEEE semantics, which agree with accepts(compareOrdered).
func predicate[T constraints.Ordered](k Kind) func(a, b T) bool {
	switch k {
	case Equal:
		return func(a, b T) bool { return a == b }
	case NotEqual:
		return func(a, b T) bool { return a != b }
	case GreaterThan:
		return func(a, b T) bool { return a > b }
	case GreaterOrEqual:
		return func(a, b T) bool { return a >= b }
	case LessThan:
		return func(a, b T) bool { return a < b }
	case LessOrEqual:
		return func(a, b T) bool { return a <= b }
	}
	return func(T, T) bool { return false }
}
