package operator

import (
	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
)

// evalComparison applies op to two already-resolved constants. Comparing
// constants of different types is a TypeMismatch error (§7); ordering
// comparisons (LT/LEQ/GT/GEQ) between two strings compare lexicographically,
// matching "LT is a strict total order per type" (§8).
func evalComparison(left, right term.Term, op atom.ComparisonOperator) (bool, error) {
	switch l := left.(type) {
	case term.IntConst:
		r, ok := right.(term.IntConst)
		if !ok {
			return false, errs.Wrapf(errs.TypeMismatch, "cannot compare %s to %s", left, right)
		}
		return compareInt(l.Value, r.Value, op), nil
	case term.StrConst:
		r, ok := right.(term.StrConst)
		if !ok {
			return false, errs.Wrapf(errs.TypeMismatch, "cannot compare %s to %s", left, right)
		}
		return compareStr(l.Value, r.Value, op), nil
	default:
		return false, errs.Wrapf(errs.TypeMismatch, "unresolved term in comparison: %s", left)
	}
}

func compareInt(a, b int64, op atom.ComparisonOperator) bool {
	switch op {
	case atom.EQ:
		return a == b
	case atom.NEQ:
		return a != b
	case atom.LT:
		return a < b
	case atom.LEQ:
		return a <= b
	case atom.GT:
		return a > b
	case atom.GEQ:
		return a >= b
	default:
		return false
	}
}

func compareStr(a, b string, op atom.ComparisonOperator) bool {
	switch op {
	case atom.EQ:
		return a == b
	case atom.NEQ:
		return a != b
	case atom.LT:
		return a < b
	case atom.LEQ:
		return a <= b
	case atom.GT:
		return a > b
	case atom.GEQ:
		return a >= b
	default:
		return false
	}
}
