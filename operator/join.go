package operator

import (
	"io"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// Join is a tuple-nested-loop join: the outer (left) child is advanced
// once, and for each outer tuple the inner (right) child is scanned fully
// and then reset, per §4.7. leftAtoms is the accumulated list of
// RelationalAtoms labeling the outer side; rightAtom labels the inner side.
type Join struct {
	leftAtoms []*atom.RelationalAtom
	rightAtom *atom.RelationalAtom
	preds     []*atom.ComparisonAtom

	left  Operator
	right Operator

	outer     tuple.Tuple
	outerDone bool
}

// NewJoin builds a Join of left (labeled with leftAtoms) and right (labeled
// with rightAtom), applying preds as the explicit join predicates assigned
// to rightAtom by the planner, in addition to the implicit equi-join on
// variables shared between leftAtoms and rightAtom.
func NewJoin(leftAtoms []*atom.RelationalAtom, rightAtom *atom.RelationalAtom, left, right Operator, preds []*atom.ComparisonAtom) *Join {
	return &Join{leftAtoms: leftAtoms, rightAtom: rightAtom, preds: preds, left: left, right: right}
}

func (j *Join) Atoms() []*atom.RelationalAtom {
	out := make([]*atom.RelationalAtom, 0, len(j.leftAtoms)+1)
	out = append(out, j.leftAtoms...)
	return append(out, j.rightAtom)
}

func (j *Join) Open() error {
	if err := j.left.Open(); err != nil {
		return err
	}
	if err := j.right.Open(); err != nil {
		return err
	}
	return j.primeOuter()
}

// primeOuter pulls the next outer tuple, or records end-of-stream.
func (j *Join) primeOuter() error {
	t, done, err := j.left.Next()
	if err != nil {
		return err
	}
	j.outer, j.outerDone = t, done
	return nil
}

func (j *Join) Next() (tuple.Tuple, bool, error) {
	for {
		if j.outerDone {
			return nil, true, nil
		}

		inner, done, err := j.right.Next()
		if err != nil {
			return nil, true, err
		}
		if done {
			if err := j.right.Reset(); err != nil {
				return nil, true, err
			}
			if err := j.primeOuter(); err != nil {
				return nil, true, err
			}
			continue
		}

		combined := tuple.Concat(j.outer, inner)
		ok, err := j.matches(j.outer, inner, combined)
		if err != nil {
			return nil, true, err
		}
		if ok {
			return combined, false, nil
		}
	}
}

// matches checks both the implicit equi-join on variables shared between
// leftAtoms and rightAtom, and the explicit join predicates assigned to
// rightAtom.
func (j *Join) matches(outer, inner, combined tuple.Tuple) (bool, error) {
	for _, v := range j.rightAtom.Variables() {
		rightPositions := j.rightAtom.PositionsOf(v)
		if len(rightPositions) == 0 {
			continue
		}
		rightVal := inner[rightPositions[0]]

		offset := 0
		for _, la := range j.leftAtoms {
			for _, idx := range la.PositionsOf(v) {
				if !term.Equal(outer[offset+idx], rightVal) {
					return false, nil
				}
			}
			offset += len(la.Terms)
		}
	}

	atoms := j.Atoms()
	for _, p := range j.preds {
		left, ok := ResolveTerm(p.Left, atoms, combined)
		if !ok {
			return false, errs.Wrapf(errs.PlannerInvariant, "join: %s belongs to no known relation", p.Left)
		}
		right, ok := ResolveTerm(p.Right, atoms, combined)
		if !ok {
			return false, errs.Wrapf(errs.PlannerInvariant, "join: %s belongs to no known relation", p.Right)
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

func (j *Join) Reset() error {
	if err := j.left.Reset(); err != nil {
		return err
	}
	if err := j.right.Reset(); err != nil {
		return err
	}
	return j.primeOuter()
}

func (j *Join) Dump(w io.Writer) error { return dumpDefault(j, w) }
