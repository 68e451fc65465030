package atom

import (
	"testing"

	"github.com/ryogrid/minibase-go/term"
)

func v(name string) term.Variable { return term.Variable{Name: name} }

func TestRelationalAtomString(t *testing.T) {
	r := &RelationalAtom{Name: "R", Terms: []term.Term{v("x"), term.IntConst{Value: 3}}}
	if got, want := r.String(), "R(x, 3)"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRelationalAtomStringWithSum(t *testing.T) {
	r := &RelationalAtom{
		Name:  "Q",
		Terms: []term.Term{v("x")},
		Sum:   &SumAggregate{ProductTerms: []term.Term{v("p"), v("q")}},
	}
	if got, want := r.String(), "Q(x, SUM(p*q))"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestEqualAtom(t *testing.T) {
	a := &RelationalAtom{Name: "R", Terms: []term.Term{v("x"), v("y")}}
	b := &RelationalAtom{Name: "R", Terms: []term.Term{v("x"), v("y")}}
	c := &RelationalAtom{Name: "R", Terms: []term.Term{v("y"), v("x")}}
	if !a.EqualAtom(b) {
		t.Fatal("want equal atoms with identical term order")
	}
	if a.EqualAtom(c) {
		t.Fatal("want atoms with swapped term order to differ")
	}
}

func TestCanonicalKeyDistinguishesOrder(t *testing.T) {
	a := &RelationalAtom{Name: "R", Terms: []term.Term{v("x"), v("y")}}
	c := &RelationalAtom{Name: "R", Terms: []term.Term{v("y"), v("x")}}
	if a.CanonicalKey() == c.CanonicalKey() {
		t.Fatal("want different term orders to produce different canonical keys")
	}
}

func TestVariablesFirstOccurrenceOrder(t *testing.T) {
	r := &RelationalAtom{Name: "R", Terms: []term.Term{v("y"), v("x"), v("y")}}
	got := r.Variables()
	if len(got) != 2 || got[0].Name != "y" || got[1].Name != "x" {
		t.Fatalf("want [y x], got %v", got)
	}
}

func TestPositionsOf(t *testing.T) {
	r := &RelationalAtom{Name: "R", Terms: []term.Term{v("x"), v("y"), v("x")}}
	got := r.PositionsOf(v("x"))
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("want [0 2], got %v", got)
	}
}

func TestComparisonOperatorRoundTrip(t *testing.T) {
	for _, op := range []ComparisonOperator{EQ, NEQ, LT, LEQ, GT, GEQ} {
		got, ok := ParseComparisonOperator(op.String())
		if !ok || got != op {
			t.Fatalf("round trip failed for %v: got %v, ok=%v", op, got, ok)
		}
	}
}

func TestQueryStringAndSafetyCheck(t *testing.T) {
	q := &Query{
		Head: &RelationalAtom{Name: "Q", Terms: []term.Term{v("x")}},
		Body: []Atom{
			&RelationalAtom{Name: "R", Terms: []term.Term{v("x"), v("y")}},
			&ComparisonAtom{Left: v("y"), Op: GT, Right: term.IntConst{Value: 1}},
		},
	}
	if got, want := q.String(), "Q(x) :- R(x, y), y > 1."; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if _, safe := q.SafetyCheck(); !safe {
		t.Fatal("want a safe query")
	}

	unsafeQ := &Query{
		Head: &RelationalAtom{Name: "Q", Terms: []term.Term{v("z")}},
		Body: []Atom{&RelationalAtom{Name: "R", Terms: []term.Term{v("x")}}},
	}
	if unsafeVar, safe := unsafeQ.SafetyCheck(); safe || unsafeVar != "z" {
		t.Fatalf("want unsafe query flagging z, got %q safe=%v", unsafeVar, safe)
	}
}

func TestRelationalAtomsAndComparisonAtomsFilter(t *testing.T) {
	r := &RelationalAtom{Name: "R", Terms: []term.Term{v("x")}}
	c := &ComparisonAtom{Left: v("x"), Op: EQ, Right: term.IntConst{Value: 1}}
	body := []Atom{r, c}

	if got := RelationalAtoms(body); len(got) != 1 || got[0] != r {
		t.Fatalf("want [r], got %v", got)
	}
	if got := ComparisonAtoms(body); len(got) != 1 || got[0] != c {
		t.Fatalf("want [c], got %v", got)
	}
}
