// Package minimize implements HomomorphismSearch and CoreDriver: computing
// the core of a conjunctive query by repeatedly testing whether an atom can
// be removed without changing the query's answer.
package minimize

import (
	mapset "github.com/deckarep/golang-set/v2"
	stack "github.com/golang-collections/collections/stack"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/term"
)

// assignment maps a variable name to the term it has been mapped to by a
// candidate homomorphism.
type assignment map[string]term.Term

// ExistsHomomorphism decides whether there is a homomorphism h from q's body
// to qPrime's body that fixes q's head variables, where qPrime is q with
// removed evicted from the body. removed must be a *atom.RelationalAtom that
// occurs in q.Body; qPrime must equal q with that occurrence removed.
//
// Only the non-head variables that occur in removed need to be reassigned:
// every other variable is fixed under h, including variables private to
// other body atoms. The search enumerates candidate assignments for those
// variables and tests whether substituting them into q's full atom set
// (removed included) reproduces qPrime's atom set exactly, after
// deduplicating both sides — a homomorphism witness always folds the
// evicted atom onto some atom already present in qPrime.
func ExistsHomomorphism(q, qPrime *atom.Query, removed *atom.RelationalAtom) bool {
	freeVars := nonHeadVariables(removed, q.Head)
	candidates := candidateTerms(qPrime, removed.Name, freeVars)

	sourceAtoms := atom.RelationalAtoms(q.Body)
	targetKey := canonicalSet(atom.RelationalAtoms(qPrime.Body))

	return enumerateAndTest(freeVars, candidates, func(a assignment) bool {
		substituted := applyAssignment(sourceAtoms, a)
		return canonicalSet(substituted).Equal(targetKey)
	})
}

// nonHeadVariables returns the distinct variables of removed that are not
// among the query's head variables, in first-occurrence order — the set V
// of §4.1.
func nonHeadVariables(removed, head *atom.RelationalAtom) []term.Variable {
	headVars := mapset.NewSet[term.Variable]()
	for _, v := range head.Variables() {
		headVars.Add(v)
	}
	var out []term.Variable
	seen := mapset.NewSet[term.Variable]()
	for _, v := range removed.Variables() {
		if !headVars.Contains(v) && !seen.Contains(v) {
			seen.Add(v)
			out = append(out, v)
		}
	}
	return out
}

// candidateTerms collects the distinct terms occurring, at any position, in
// every qPrime body atom sharing removed's relation name — the
// over-approximated candidate set C of §4.1 step 2 — excluding the free
// variables themselves (a variable trivially maps to itself and is not
// re-tested).
func candidateTerms(qPrime *atom.Query, removedName string, freeVars []term.Variable) []term.Term {
	exclude := mapset.NewSet[term.Term]()
	for _, v := range freeVars {
		exclude.Add(term.Term(v))
	}

	seen := mapset.NewSet[term.Term]()
	var out []term.Term
	for _, a := range atom.RelationalAtoms(qPrime.Body) {
		if a.Name != removedName {
			continue
		}
		for _, t := range a.Terms {
			if exclude.Contains(t) || seen.Contains(t) {
				continue
			}
			seen.Add(t)
			out = append(out, t)
		}
	}
	return out
}

// enumerateAndTest performs the DFS over all functions vars -> candidates
// using an explicit worklist (a stack of partial assignments), as required
// by §4.1 step 3, returning true at the first assignment for which test
// succeeds.
//
// When vars is empty, the single empty assignment is tested directly. When
// candidates is empty and vars is non-empty, the search space is empty and
// this returns false without calling test.
func enumerateAndTest(vars []term.Variable, candidates []term.Term, test func(assignment) bool) bool {
	type frame struct {
		idx     int
		partial assignment
	}

	work := stack.New()
	work.Push(frame{idx: 0, partial: assignment{}})

	for work.Len() > 0 {
		f := work.Pop().(frame)

		if f.idx == len(vars) {
			if test(f.partial) {
				return true
			}
			continue
		}

		v := vars[f.idx]
		for _, c := range candidates {
			next := make(assignment, len(f.partial)+1)
			for k, val := range f.partial {
				next[k] = val
			}
			next[v.Name] = c
			work.Push(frame{idx: f.idx + 1, partial: next})
		}
	}
	return false
}

// applyAssignment substitutes every variable occurrence named in a across
// every atom in atoms, leaving all other terms (constants, and variables not
// in a) unchanged.
func applyAssignment(atoms []*atom.RelationalAtom, a assignment) []*atom.RelationalAtom {
	if len(a) == 0 {
		return atoms
	}
	out := make([]*atom.RelationalAtom, len(atoms))
	for i, r := range atoms {
		terms := make([]term.Term, len(r.Terms))
		for j, t := range r.Terms {
			if v, ok := t.(term.Variable); ok {
				if repl, ok := a[v.Name]; ok {
					terms[j] = repl
					continue
				}
			}
			terms[j] = t
		}
		out[i] = &atom.RelationalAtom{Name: r.Name, Terms: terms}
	}
	return out
}

// canonicalSet builds the deduplicated set of atoms, keyed by their
// canonical serialized form (name + typed term sequence) rather than by a
// numeric hash, so that a hash collision can never be mistaken for atom equality —
// resolving the open question in §9 about the original's unstable
// hashCode-based ordering. Duplicate atoms collapse to one element, which is
// what makes "set equality" and "multiset equality" coincide per §4.1's
// final edge case.
func canonicalSet(atoms []*atom.RelationalAtom) mapset.Set[string] {
	s := mapset.NewSet[string]()
	for _, a := range atoms {
		s.Add(a.CanonicalKey())
	}
	return s
}

// Minimize computes the core of q: it removes body relational atoms one at
// a time, in insertion order, restarting the outer scan whenever a removal
// succeeds, until a full pass removes nothing. Comparison atoms are left
// untouched throughout, per §4.2 (the minimizer is defined over bodies of
// relational atoms only).
func Minimize(q *atom.Query) *atom.Query {
	cur := q.Clone()

	for {
		removedSomething := false

		for i, a := range cur.Body {
			r, ok := a.(*atom.RelationalAtom)
			if !ok {
				continue
			}
			reduced := cur.WithoutAtomAt(i)
			if ExistsHomomorphism(cur, reduced, r) {
				cur = reduced
				removedSomething = true
				break
			}
		}

		if !removedSomething {
			return cur
		}
	}
}
