package operator

import (
	"fmt"
	"io"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// SumAggregate is a fully blocking operator: Next drains the entire child on
// its first call, accumulating one running sum per group-by key, then
// serves the accumulated entries one at a time in the order each group was
// first seen (§5 leaves SumAggregate's emission order unspecified).
type SumAggregate struct {
	atoms        []*atom.RelationalAtom
	groupByTerms []term.Term
	productTerms []term.Term
	child        Operator

	acc     map[string]int64
	keys    map[string]tuple.Tuple
	order   []string
	pos     int
	drained bool
}

// NewSumAggregate wraps child, grouping by groupByTerms and summing the
// product of productTerms per group.
func NewSumAggregate(atoms []*atom.RelationalAtom, groupByTerms, productTerms []term.Term, child Operator) *SumAggregate {
	return &SumAggregate{atoms: atoms, groupByTerms: groupByTerms, productTerms: productTerms, child: child}
}

func (s *SumAggregate) Open() error {
	s.acc = nil
	s.keys = nil
	s.order = nil
	s.pos = 0
	s.drained = false
	return s.child.Open()
}

func (s *SumAggregate) Next() (tuple.Tuple, bool, error) {
	if !s.drained {
		if err := s.drain(); err != nil {
			return nil, true, err
		}
		s.drained = true
	}

	if s.pos >= len(s.order) {
		return nil, true, nil
	}
	key := s.order[s.pos]
	s.pos++

	group := s.keys[key]
	sum := s.acc[key]
	return append(append(tuple.Tuple{}, group...), term.IntConst{Value: sum}), false, nil
}

func (s *SumAggregate) drain() error {
	s.acc = make(map[string]int64)
	s.keys = make(map[string]tuple.Tuple)

	// With no group-by terms there is exactly one group, the empty tuple,
	// and it must be reported even over an empty input (§8: "SumAggregate
	// over an empty input with no group-by emits a single 0").
	if len(s.groupByTerms) == 0 {
		empty := tuple.Tuple{}
		s.acc[empty.Key()] = 0
		s.keys[empty.Key()] = empty
		s.order = append(s.order, empty.Key())
	}

	for {
		t, done, err := s.child.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		group, ok := ResolveProjectedTuple(s.groupByTerms, s.atoms, t)
		if !ok {
			return errs.Wrapf(errs.PlannerInvariant, "sumaggregate: group-by term not found in %v", s.atoms)
		}
		delta, err := s.product(t)
		if err != nil {
			return err
		}

		key := group.Key()
		if _, ok := s.acc[key]; !ok {
			s.keys[key] = group
			s.order = append(s.order, key)
		}
		s.acc[key] += delta
	}
}

// product resolves and multiplies productTerms against t, per §4.9 step 2:
// a single IntConst product term is its own value; otherwise every term is
// resolved and must be an IntConst.
func (s *SumAggregate) product(t tuple.Tuple) (int64, error) {
	if len(s.productTerms) == 1 {
		if c, ok := s.productTerms[0].(term.IntConst); ok {
			return c.Value, nil
		}
	}

	var running int64 = 1
	for _, pt := range s.productTerms {
		v, ok := ResolveTerm(pt, s.atoms, t)
		if !ok {
			return 0, errs.Wrapf(errs.PlannerInvariant, "sumaggregate: product term %s not found in %v", pt, s.atoms)
		}
		c, ok := v.(term.IntConst)
		if !ok {
			return 0, errs.Wrapf(errs.TypeMismatch, "sumaggregate: product term %s resolved to non-integer %s", pt, v)
		}
		running *= c.Value
	}
	return running, nil
}

func (s *SumAggregate) Reset() error {
	s.acc = nil
	s.keys = nil
	s.order = nil
	s.pos = 0
	s.drained = false
	return s.child.Reset()
}

// Dump drains the aggregate and writes one line per group: group columns
// followed by the sum, or the bare sum with no group-by terms, per §4.9.
func (s *SumAggregate) Dump(w io.Writer) error {
	for {
		t, done, err := s.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if len(s.groupByTerms) == 0 {
			sum := t[len(t)-1]
			if _, err := fmt.Fprintln(w, sum.String()); err != nil {
				return errs.Wrap(errs.Io, err.Error())
			}
			continue
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return errs.Wrap(errs.Io, err.Error())
		}
	}
}
