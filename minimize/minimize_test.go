package minimize

import (
	"testing"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/testutil"
	"github.com/ryogrid/minibase-go/term"
)

func rel(name string, terms ...term.Term) *atom.RelationalAtom {
	return &atom.RelationalAtom{Name: name, Terms: terms}
}

func v(name string) term.Variable { return term.Variable{Name: name} }

// Q(x) :- R(x,y), R(x,z)  minimizes to  Q(x) :- R(x,z): the outer scan tries
// removing R(x,y) first (i=0), and the reduced body R(x,z) alone supplies the
// candidate z for y, so that removal succeeds and the scan never reaches
// R(x,z).
func TestMinimizeCollapsesDuplicateAtom(t *testing.T) {
	q := &atom.Query{
		Head: rel("Q", v("x")),
		Body: []atom.Atom{
			rel("R", v("x"), v("y")),
			rel("R", v("x"), v("z")),
		},
	}

	got := Minimize(q)

	testutil.Equals(t, 1, len(got.Body))
	testutil.Equals(t, "Q(x) :- R(x, z).", got.String())
}

// Q(x,y) :- R(x,y), R(y,z)  has no smaller equivalent core.
func TestMinimizeKeepsNonRemovableAtom(t *testing.T) {
	q := &atom.Query{
		Head: rel("Q", v("x"), v("y")),
		Body: []atom.Atom{
			rel("R", v("x"), v("y")),
			rel("R", v("y"), v("z")),
		},
	}

	got := Minimize(q)

	testutil.Equals(t, 2, len(got.Body))
}

func TestMinimizeIsIdempotent(t *testing.T) {
	q := &atom.Query{
		Head: rel("Q", v("x")),
		Body: []atom.Atom{
			rel("R", v("x"), v("y")),
			rel("R", v("x"), v("z")),
			rel("R", v("x"), v("w")),
		},
	}

	once := Minimize(q)
	twice := Minimize(once)

	testutil.Equals(t, once.String(), twice.String())
}

func TestMinimizeNeverGrowsTheBody(t *testing.T) {
	q := &atom.Query{
		Head: rel("Q", v("x"), v("y")),
		Body: []atom.Atom{
			rel("R", v("x"), v("y")),
			rel("S", v("y"), v("z")),
		},
	}

	got := Minimize(q)

	if len(got.Body) > len(q.Body) {
		t.Fatalf("minimize grew the body: %d > %d", len(got.Body), len(q.Body))
	}
}

func TestExistsHomomorphismRejectsWhenCandidateSetEmpty(t *testing.T) {
	// Removing R(x,z) from Q(x) :- R(x,z) leaves an empty body, so there are
	// no same-name atoms left to supply candidates for z, and no
	// homomorphism can exist despite z being a free variable.
	q := &atom.Query{
		Head: rel("Q", v("x")),
		Body: []atom.Atom{
			rel("R", v("x"), v("z")),
		},
	}
	reduced := q.WithoutAtomAt(0)

	if ExistsHomomorphism(q, reduced, rel("R", v("x"), v("z"))) {
		t.Fatalf("expected no homomorphism when the reduced body is empty")
	}
}
