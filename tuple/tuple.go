// Package tuple defines the flat vector of constants that flows between
// operators, mirroring the role of the teacher's storage/table.Tuple but
// holding decoded term.Term constants directly instead of a serialized byte
// layout — there is no buffer pool page format to pack into here.
package tuple

import (
	"strings"

	"github.com/ryogrid/minibase-go/term"
)

// Tuple is an ordered, fixed-arity sequence of constant terms. Tuples are
// immutable once constructed: operators build new Tuples rather than
// mutating one in place.
type Tuple []term.Term

// Arity returns the number of columns.
func (t Tuple) Arity() int { return len(t) }

// Concat returns a new Tuple holding t's columns followed by other's,
// matching §4.7's "output tuple is the concatenation of outer and inner
// tuple term sequences."
func Concat(left, right Tuple) Tuple {
	out := make(Tuple, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

// Equal reports whether a and b have the same arity and equal terms at
// every position.
func Equal(a, b Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !term.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Key returns a canonical string encoding of t suitable for use as a map key
// (e.g. Project's dedup set, SumAggregate's group-by accumulator), avoiding
// the hash-collision risk of keying by a numeric hash directly.
func (t Tuple) Key() string {
	var b strings.Builder
	for i, c := range t {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// String renders t as comma-separated fields with no surrounding type
// markers, matching §6's non-aggregate output format (strings emitted
// without surrounding quotes).
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, c := range t {
		parts[i] = plainString(c)
	}
	return strings.Join(parts, ", ")
}

// plainString renders a constant the way tuple output requires: string
// constants without their surrounding quotes, everything else via its
// normal String().
func plainString(t term.Term) string {
	if s, ok := t.(term.StrConst); ok {
		return s.Value
	}
	return t.String()
}
