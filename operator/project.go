package operator

import (
	"io"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// Project resolves headTerms against its child's tuples and emits only
// those projections not already emitted. It keeps every projected tuple
// it has ever returned in an accumulator for the lifetime of the pull, so
// while individual calls to Next return as soon as a fresh tuple is found
// (it does not wait for the child to be fully exhausted), the operator's
// memory grows across the whole run — the "blocking, deduplicating"
// operator of §4.8, matching the source's own eager-return-but-buffering
// ProjectOperator.
type Project struct {
	atoms     []*atom.RelationalAtom
	headTerms []term.Term
	child     Operator
	seen      mapset.Set[string]
}

// NewProject wraps child, resolving headTerms against atoms.
func NewProject(atoms []*atom.RelationalAtom, headTerms []term.Term, child Operator) *Project {
	return &Project{atoms: atoms, headTerms: headTerms, child: child, seen: mapset.NewSet[string]()}
}

func (p *Project) Open() error {
	p.seen = mapset.NewSet[string]()
	return p.child.Open()
}

func (p *Project) Next() (tuple.Tuple, bool, error) {
	for {
		t, done, err := p.child.Next()
		if err != nil || done {
			return nil, done, err
		}
		projected, ok := ResolveProjectedTuple(p.headTerms, p.atoms, t)
		if !ok {
			return nil, true, errs.Wrapf(errs.PlannerInvariant, "project: projected term not found in %v", p.atoms)
		}
		key := projected.Key()
		if p.seen.Contains(key) {
			continue
		}
		p.seen.Add(key)
		return projected, false, nil
	}
}

func (p *Project) Reset() error {
	p.seen = mapset.NewSet[string]()
	return p.child.Reset()
}

func (p *Project) Dump(w io.Writer) error { return dumpDefault(p, w) }
