package tuple

import (
	"testing"

	"github.com/ryogrid/minibase-go/term"
)

func TestConcat(t *testing.T) {
	left := Tuple{term.IntConst{Value: 1}}
	right := Tuple{term.IntConst{Value: 2}, term.StrConst{Value: "y"}}

	got := Concat(left, right)

	if got.Arity() != 3 {
		t.Fatalf("want arity 3, got %d", got.Arity())
	}
	if got.String() != "1, 2, y" {
		t.Fatalf("want %q, got %q", "1, 2, y", got.String())
	}
}

func TestEqual(t *testing.T) {
	a := Tuple{term.IntConst{Value: 1}, term.StrConst{Value: "x"}}
	b := Tuple{term.IntConst{Value: 1}, term.StrConst{Value: "x"}}
	c := Tuple{term.IntConst{Value: 1}, term.StrConst{Value: "y"}}

	if !Equal(a, b) {
		t.Fatalf("expected a == b")
	}
	if Equal(a, c) {
		t.Fatalf("expected a != c")
	}
	if Equal(a, Tuple{term.IntConst{Value: 1}}) {
		t.Fatalf("expected different arity to be unequal")
	}
}

func TestKeyDistinguishesTuples(t *testing.T) {
	a := Tuple{term.StrConst{Value: "x"}, term.IntConst{Value: 1}}
	b := Tuple{term.StrConst{Value: "x"}, term.IntConst{Value: 2}}

	if a.Key() == b.Key() {
		t.Fatalf("expected distinct keys for distinct tuples")
	}
}

func TestStringStripsQuotesFromStrings(t *testing.T) {
	tp := Tuple{term.StrConst{Value: "hello"}, term.IntConst{Value: 5}}

	if got := tp.String(); got != "hello, 5" {
		t.Fatalf("want %q, got %q", "hello, 5", got)
	}
}
