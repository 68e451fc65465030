// Package term implements the term algebra shared by the minimizer and the
// evaluator: variables, integer constants and string constants.
package term

import (
	"fmt"
	"strconv"
)

// Term is a variable, an integer constant or a string constant. Equality is
// structural: two terms are equal iff they carry the same tag and payload.
//
// Term is intentionally left comparable with Go's == operator (every
// implementation below is a plain struct of comparable fields), so a Term
// can be used directly as a map key or as an element of a
// github.com/deckarep/golang-set/v2 set.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Variable is a named term that is bound during query evaluation or
// homomorphism search.
type Variable struct {
	Name string
}

func (Variable) isTerm() {}

func (v Variable) String() string { return v.Name }

// IntConst is a signed 64-bit integer constant.
type IntConst struct {
	Value int64
}

func (IntConst) isTerm() {}

func (c IntConst) String() string { return strconv.FormatInt(c.Value, 10) }

// StrConst is a string constant. On the wire (CSV fields, query text) it is
// wrapped in a single pair of single quotes; the constant's Value never
// carries the quotes.
type StrConst struct {
	Value string
}

func (StrConst) isTerm() {}

func (c StrConst) String() string { return "'" + c.Value + "'" }

// IsConstant reports whether t is an IntConst or a StrConst.
func IsConstant(t Term) bool {
	switch t.(type) {
	case IntConst, StrConst:
		return true
	default:
		return false
	}
}

// Equal reports whether two terms are structurally equal. Provided alongside
// Go's native == for readability at call sites that already hold an
// interface value of unknown dynamic type.
func Equal(a, b Term) bool { return a == b }
