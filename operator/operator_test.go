package operator

import (
	"bytes"
	"io"
	"testing"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// memScan is a tiny in-memory stand-in for Scan used to test the operators
// above it without touching the filesystem.
type memScan struct {
	rel  *atom.RelationalAtom
	rows []tuple.Tuple
	pos  int
}

func newMemScan(rel *atom.RelationalAtom, rows ...tuple.Tuple) *memScan {
	return &memScan{rel: rel, rows: rows}
}

func (m *memScan) Atoms() []*atom.RelationalAtom { return []*atom.RelationalAtom{m.rel} }
func (m *memScan) Open() error                   { m.pos = 0; return nil }
func (m *memScan) Reset() error                  { m.pos = 0; return nil }
func (m *memScan) Dump(w io.Writer) error {
	return nil
}
func (m *memScan) Next() (tuple.Tuple, bool, error) {
	if m.pos >= len(m.rows) {
		return nil, true, nil
	}
	t := m.rows[m.pos]
	m.pos++
	return t, false, nil
}

func i(n int64) term.IntConst      { return term.IntConst{Value: n} }
func str(s string) term.StrConst   { return term.StrConst{Value: s} }
func vr(name string) term.Variable { return term.Variable{Name: name} }

func drainAll(t *testing.T, op Operator) []tuple.Tuple {
	t.Helper()
	var out []tuple.Tuple
	for {
		row, done, err := op.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if done {
			return out
		}
		out = append(out, row)
	}
}

func TestSelectFiltersByStandaloneComparison(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("a"), vr("b")}}
	child := newMemScan(r, tuple.Tuple{i(1), i(2)}, tuple.Tuple{i(3), i(2)}, tuple.Tuple{i(5), i(6)})
	pred := &atom.ComparisonAtom{Left: vr("a"), Op: atom.GT, Right: term.IntConst{Value: 1}}

	sel := NewSelect(r, []*atom.ComparisonAtom{pred}, child)
	if err := sel.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	got := drainAll(t, sel)
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
}

func TestJoinImplicitEquiJoin(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("a"), vr("b")}}
	s := &atom.RelationalAtom{Name: "S", Terms: []term.Term{vr("b"), vr("c")}}

	left := newMemScan(r, tuple.Tuple{i(1), i(2)}, tuple.Tuple{i(3), i(2)}, tuple.Tuple{i(5), i(6)})
	right := newMemScan(s, tuple.Tuple{i(2), i(10)}, tuple.Tuple{i(6), i(20)})

	j := NewJoin([]*atom.RelationalAtom{r}, s, left, right, nil)
	if err := j.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	got := drainAll(t, j)
	if len(got) != 3 {
		t.Fatalf("want 3 rows, got %d: %v", len(got), got)
	}
}

func TestProjectDeduplicates(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("a")}}
	child := newMemScan(r, tuple.Tuple{str("x")}, tuple.Tuple{str("x")}, tuple.Tuple{str("y")})

	p := NewProject([]*atom.RelationalAtom{r}, []term.Term{vr("a")}, child)
	if err := p.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	got := drainAll(t, p)
	if len(got) != 2 {
		t.Fatalf("want 2 distinct rows, got %d", len(got))
	}
	if got[0].String() != "x" || got[1].String() != "y" {
		t.Fatalf("want first-occurrence order x,y, got %v", got)
	}
}

func TestSumAggregateGroupBy(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("k"), vr("v")}}
	child := newMemScan(r, tuple.Tuple{str("a"), i(1)}, tuple.Tuple{str("a"), i(2)}, tuple.Tuple{str("b"), i(5)})

	agg := NewSumAggregate([]*atom.RelationalAtom{r}, []term.Term{vr("k")}, []term.Term{vr("v")}, child)
	if err := agg.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	var buf bytes.Buffer
	if err := agg.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	got := buf.String()
	if got != "a, 3\nb, 5\n" && got != "b, 5\na, 3\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSumAggregateProductOfTwoVariables(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("a"), vr("b")}}
	child := newMemScan(r, tuple.Tuple{i(2), i(3)}, tuple.Tuple{i(4), i(5)})

	agg := NewSumAggregate([]*atom.RelationalAtom{r}, nil, []term.Term{vr("a"), vr("b")}, child)
	if err := agg.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	var buf bytes.Buffer
	if err := agg.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if want := "26\n"; buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}

func TestSumAggregateEmptyInputNoGroupByEmitsZero(t *testing.T) {
	r := &atom.RelationalAtom{Name: "R", Terms: []term.Term{vr("a"), vr("b")}}
	child := newMemScan(r)

	agg := NewSumAggregate([]*atom.RelationalAtom{r}, nil, []term.Term{vr("a")}, child)
	if err := agg.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}

	var buf bytes.Buffer
	if err := agg.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if buf.String() != "0\n" {
		t.Fatalf("want %q, got %q", "0\n", buf.String())
	}
}
