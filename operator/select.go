package operator

import (
	"io"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// Select filters its child's tuples by a non-empty list of standalone
// comparison atoms, all of whose variables occur in rel. It forwards
// matching tuples unchanged, per §4.6.
type Select struct {
	child Operator
	rel   *atom.RelationalAtom
	preds []*atom.ComparisonAtom
}

// NewSelect wraps child with preds evaluated against rel's term positions.
func NewSelect(rel *atom.RelationalAtom, preds []*atom.ComparisonAtom, child Operator) *Select {
	return &Select{child: child, rel: rel, preds: preds}
}

func (s *Select) Atoms() []*atom.RelationalAtom { return []*atom.RelationalAtom{s.rel} }

func (s *Select) Open() error { return s.child.Open() }

func (s *Select) Next() (tuple.Tuple, bool, error) {
	for {
		t, done, err := s.child.Next()
		if err != nil || done {
			return nil, done, err
		}
		ok, err := s.satisfies(t)
		if err != nil {
			return nil, true, err
		}
		if ok {
			return t, false, nil
		}
	}
}

func (s *Select) satisfies(t tuple.Tuple) (bool, error) {
	for _, p := range s.preds {
		left, ok := s.bind(p.Left, t)
		if !ok {
			return false, errs.Wrapf(errs.PlannerInvariant, "select: %s not bound by %s", p.Left, s.rel.Name)
		}
		right, ok := s.bind(p.Right, t)
		if !ok {
			return false, errs.Wrapf(errs.PlannerInvariant, "select: %s not bound by %s", p.Right, s.rel.Name)
		}
		result, err := evalComparison(left, right, p.Op)
		if err != nil {
			return false, err
		}
		if !result {
			return false, nil
		}
	}
	return true, nil
}

// bind resolves a comparison operand: a constant evaluates directly, a
// variable is looked up at its first occurrence position in rel.
func (s *Select) bind(t term.Term, row tuple.Tuple) (term.Term, bool) {
	if term.IsConstant(t) {
		return t, true
	}
	v := t.(term.Variable)
	for i, at := range s.rel.Terms {
		if at == term.Term(v) {
			return row[i], true
		}
	}
	return nil, false
}

func (s *Select) Reset() error { return s.child.Reset() }

func (s *Select) Dump(w io.Writer) error { return dumpDefault(s, w) }
