// Package operator implements the pull-based pipeline of Scan, Select,
// Project, Join, and SumAggregate operators, mirroring the shape of the
// teacher's execution/executors package (Init/Next) but with the design's
// Next/Reset/Dump verbs plus Open, and no dependency on a buffer pool or on-disk
// page format.
package operator

import (
	"io"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// Operator is the capability set every node of the plan tree implements:
// Open primes it for iteration, Next pulls one tuple at a time, Reset
// restores it to the state it had right after Open, and Dump drains it to a
// sink.
type Operator interface {
	// Open prepares the operator to be pulled from. It must be called
	// before the first Next.
	Open() error

	// Next returns the next tuple in the output stream. The second return
	// value is true at end-of-stream, at which point the tuple is the zero
	// value and must be ignored. Once Next reports end-of-stream it keeps
	// reporting it until Reset.
	Next() (tuple.Tuple, bool, error)

	// Reset restores the operator (and, recursively, its children) to the
	// state it was in immediately after Open.
	Reset() error

	// Dump drains Next to end-of-stream, writing one formatted result per
	// line to w.
	Dump(w io.Writer) error
}

// Labeled is implemented by operators that can report the ordered sequence
// of RelationalAtoms whose concatenated columns describe their output
// tuples — the "labeling" the design refers to throughout §4. Scan, Select,
// and Join all satisfy it; Project and SumAggregate sit above the labeled
// portion of the tree and consume it rather than extend it.
type Labeled interface {
	Atoms() []*atom.RelationalAtom
}

// ResolveTerm resolves a single head/projected term against a tuple whose
// columns are described by atoms (in concatenation order): a Variable is
// looked up at the position of its first occurrence across atoms' term
// lists, and a constant passes through unchanged. It is the pure function
// the design calls out as shared by Project and SumAggregate.
func ResolveTerm(t term.Term, atoms []*atom.RelationalAtom, row tuple.Tuple) (term.Term, bool) {
	v, ok := t.(term.Variable)
	if !ok {
		return t, true
	}

	offset := 0
	for _, a := range atoms {
		for i, at := range a.Terms {
			if at == term.Term(v) {
				return row[offset+i], true
			}
		}
		offset += len(a.Terms)
	}
	return nil, false
}

// ResolveProjectedTuple resolves every term in terms against row using
// ResolveTerm, returning the projected tuple. It is used identically by
// Project (headTerms) and SumAggregate (groupByTerms), matching the design
// note that ProjectOperator.retrieveTupleAfterApplyingProjection is a pure
// function shared between the two.
func ResolveProjectedTuple(terms []term.Term, atoms []*atom.RelationalAtom, row tuple.Tuple) (tuple.Tuple, bool) {
	out := make(tuple.Tuple, len(terms))
	for i, t := range terms {
		v, ok := ResolveTerm(t, atoms, row)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
