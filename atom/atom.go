// Package atom implements the relational-atom and comparison-atom model
// (AtomModel) that both the minimizer and the evaluator build on.
package atom

import (
	"fmt"
	"strings"

	"github.com/ryogrid/minibase-go/term"
)

// Atom is either a *RelationalAtom or a *ComparisonAtom, appearing in a
// query body.
type Atom interface {
	isAtom()
	String() string
}

// SumAggregate is the optional SUM(...) attached to a query head. Every
// product term is either a Variable bound by some body relational atom or an
// IntConst.
type SumAggregate struct {
	ProductTerms []term.Term
}

func (s *SumAggregate) String() string {
	parts := make([]string, len(s.ProductTerms))
	for i, t := range s.ProductTerms {
		parts[i] = t.String()
	}
	return "SUM(" + strings.Join(parts, "*") + ")"
}

// RelationalAtom is Name(t1, ..., tn). Arity is len(Terms). Sum is non-nil
// only when this atom is a query head carrying an aggregate.
type RelationalAtom struct {
	Name  string
	Terms []term.Term
	Sum   *SumAggregate
}

func (*RelationalAtom) isAtom() {}

// Arity returns the number of terms in the atom.
func (a *RelationalAtom) Arity() int { return len(a.Terms) }

func (a *RelationalAtom) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = t.String()
	}
	body := a.Name + "(" + strings.Join(parts, ", ")
	if a.Sum != nil {
		if len(a.Terms) > 0 {
			body += ", "
		}
		body += a.Sum.String()
	}
	return body + ")"
}

// EqualAtom reports whether two relational atoms have the same name and the
// same term sequence. It ignores Sum, which never appears on body atoms.
func (a *RelationalAtom) EqualAtom(b *RelationalAtom) bool {
	if a.Name != b.Name || len(a.Terms) != len(b.Terms) {
		return false
	}
	for i := range a.Terms {
		if a.Terms[i] != b.Terms[i] {
			return false
		}
	}
	return true
}

// CanonicalKey is a serialized form suitable for use as a map key when two
// atoms must compare equal iff they are structurally equal, since a hash
// bucket alone could never guarantee that.
func (a *RelationalAtom) CanonicalKey() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = fmt.Sprintf("%T:%s", t, t.String())
	}
	return a.Name + "(" + strings.Join(parts, ",") + ")"
}

// Clone returns a shallow copy of the atom with its own Terms slice, so that
// callers may append/replace terms without aliasing the original.
func (a *RelationalAtom) Clone() *RelationalAtom {
	terms := make([]term.Term, len(a.Terms))
	copy(terms, a.Terms)
	return &RelationalAtom{Name: a.Name, Terms: terms, Sum: a.Sum}
}

// Variables returns the distinct variables occurring in the atom's term
// list, in first-occurrence order.
func (a *RelationalAtom) Variables() []term.Variable {
	seen := make(map[string]bool, len(a.Terms))
	var out []term.Variable
	for _, t := range a.Terms {
		if v, ok := t.(term.Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// PositionsOf returns every position at which v occurs in the atom's term
// list.
func (a *RelationalAtom) PositionsOf(v term.Variable) []int {
	var out []int
	for i, t := range a.Terms {
		if vv, ok := t.(term.Variable); ok && vv == v {
			out = append(out, i)
		}
	}
	return out
}

// ComparisonOperator is one of the six binary comparison operators a
// ComparisonAtom may carry.
type ComparisonOperator int

const (
	EQ ComparisonOperator = iota
	NEQ
	LT
	LEQ
	GT
	GEQ
)

func (op ComparisonOperator) String() string {
	switch op {
	case EQ:
		return "="
	case NEQ:
		return "!="
	case LT:
		return "<"
	case LEQ:
		return "<="
	case GT:
		return ">"
	case GEQ:
		return ">="
	default:
		return "?"
	}
}

// ParseComparisonOperator inverts ComparisonOperator.String, for the query
// reader.
func ParseComparisonOperator(s string) (ComparisonOperator, bool) {
	switch s {
	case "=":
		return EQ, true
	case "!=":
		return NEQ, true
	case "<":
		return LT, true
	case "<=":
		return LEQ, true
	case ">":
		return GT, true
	case ">=":
		return GEQ, true
	default:
		return 0, false
	}
}

// ComparisonAtom is left op right, where left and right are each a Variable
// or a constant.
type ComparisonAtom struct {
	Left  term.Term
	Op    ComparisonOperator
	Right term.Term
}

func (*ComparisonAtom) isAtom() {}

func (c *ComparisonAtom) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// Variables returns the distinct variables occurring in the comparison, in
// left-then-right order.
func (c *ComparisonAtom) Variables() []term.Variable {
	var out []term.Variable
	if v, ok := c.Left.(term.Variable); ok {
		out = append(out, v)
	}
	if v, ok := c.Right.(term.Variable); ok {
		if len(out) == 0 || out[0] != v {
			out = append(out, v)
		}
	}
	return out
}

// Query is head :- body. Every body element is either a *RelationalAtom or
// a *ComparisonAtom.
type Query struct {
	Head *RelationalAtom
	Body []Atom
}

// RelationalAtoms filters a body down to its relational atoms, preserving
// order.
func RelationalAtoms(body []Atom) []*RelationalAtom {
	var out []*RelationalAtom
	for _, a := range body {
		if r, ok := a.(*RelationalAtom); ok {
			out = append(out, r)
		}
	}
	return out
}

// ComparisonAtoms filters a body down to its comparison atoms, preserving
// order.
func ComparisonAtoms(body []Atom) []*ComparisonAtom {
	var out []*ComparisonAtom
	for _, a := range body {
		if c, ok := a.(*ComparisonAtom); ok {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the query's body slice (the atoms themselves are
// immutable and are shared, not copied).
func (q *Query) Clone() *Query {
	body := make([]Atom, len(q.Body))
	copy(body, q.Body)
	return &Query{Head: q.Head, Body: body}
}

// WithoutAtomAt returns a copy of the query with the body element at index i
// removed. Removal is by position, not by value, so that two structurally
// identical atoms at different positions are told apart.
func (q *Query) WithoutAtomAt(i int) *Query {
	body := make([]Atom, 0, len(q.Body)-1)
	body = append(body, q.Body[:i]...)
	body = append(body, q.Body[i+1:]...)
	return &Query{Head: q.Head, Body: body}
}

func (q *Query) String() string {
	parts := make([]string, len(q.Body))
	for i, a := range q.Body {
		parts[i] = a.String()
	}
	return q.Head.String() + " :- " + strings.Join(parts, ", ") + "."
}

// SafetyCheck reports the first head variable that does not occur in any
// body relational atom, satisfying the safety invariant of §3. It returns
// ("", true) when the query is safe.
func (q *Query) SafetyCheck() (unsafeVariable string, safe bool) {
	bound := make(map[string]bool)
	for _, r := range RelationalAtoms(q.Body) {
		for _, v := range r.Variables() {
			bound[v.Name] = true
		}
	}
	for _, t := range q.Head.Terms {
		if v, ok := t.(term.Variable); ok && !bound[v.Name] {
			return v.Name, false
		}
	}
	if q.Head.Sum != nil {
		for _, t := range q.Head.Sum.ProductTerms {
			if v, ok := t.(term.Variable); ok && !bound[v.Name] {
				return v.Name, false
			}
		}
	}
	return "", true
}
