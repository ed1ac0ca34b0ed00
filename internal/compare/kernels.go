package compare

import "github.com/apache/arrow-go/v18/arrow"

// validity answers per-row presence for one operand. A zero validity means
// every row is present.
type validity struct {
	arr arrow.Array
}

func validityOf(arr arrow.Array) validity {
	if arr == nil || arr.NullN() == 0 {
		return validity{}
	}
	return validity{arr: arr}
}

func (v validity) at(i int) bool {
	return v.arr == nil || v.arr.IsValid(i)
}

func (v validity) hasNulls() bool {
	return v.arr != nil
}

// mask is the preallocated output of a scan. Rows are written by exactly one
// range, so concurrent scans over disjoint ranges need no locking.
type mask struct {
	values []bool
	valid  []bool
}

func newMask(n int) *mask {
	return &mask{values: make([]bool, n), valid: make([]bool, n)}
}

// scanFunc evaluates rows [lo, hi) into the mask.
type scanFunc func(lo, hi int)

// scanArrays compares two columns row by row.
func scanArrays[T any](pred func(a, b T) bool, left, right []T, lv, rv validity, out *mask) scanFunc {
	if !lv.hasNulls() && !rv.hasNulls() {
		return func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out.values[i] = pred(left[i], right[i])
				out.valid[i] = true
			}
		}
	}
	return func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if !lv.at(i) || !rv.at(i) {
				continue
			}
			out.values[i] = pred(left[i], right[i])
			out.valid[i] = true
		}
	}
}

// scanScalar compares a column against one broadcast value.
func scanScalar[T any](pred func(a, b T) bool, left []T, right T, lv validity, out *mask) scanFunc {
	if !lv.hasNulls() {
		return func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out.values[i] = pred(left[i], right)
				out.valid[i] = true
			}
		}
	}
	return func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if !lv.at(i) {
				continue
			}
			out.values[i] = pred(left[i], right)
			out.valid[i] = true
		}
	}
}
