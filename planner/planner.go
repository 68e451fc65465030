// Package planner builds a left-deep operator tree from a parsed Query,
// mirroring the shape of the teacher's planner/optimizer package (which
// itself never got past a stub) with the actual join-ordering and
// selection-pushdown logic worked out per the design.
package planner

import (
	"fmt"

	pair "github.com/notEpsilon/go-pair"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/catalog"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/operator"
	"github.com/ryogrid/minibase-go/term"
)

// Normalize rewrites q into an equivalent Query whose relational atoms
// contain only pairwise-distinct variables: every repeated variable
// occurrence and every embedded constant within a relational atom is
// replaced by a fresh variable, with the equality recorded as a new
// ComparisonAtom appended to the body, per §4.4.
func Normalize(q *atom.Query) *atom.Query {
	cur := q.Clone()

	used := collectVariableNames(cur)
	counter := 0
	freshVar := func() term.Variable {
		for {
			name := fmt.Sprintf("_n%d", counter)
			counter++
			if !used[name] {
				used[name] = true
				return term.Variable{Name: name}
			}
		}
	}

	var extra []atom.Atom
	for idx, a := range cur.Body {
		orig, ok := a.(*atom.RelationalAtom)
		if !ok {
			continue
		}
		r := orig.Clone()
		cur.Body[idx] = r

		seenVar := map[string]bool{}
		for i, t := range r.Terms {
			v, isVar := t.(term.Variable)
			switch {
			case isVar && !seenVar[v.Name]:
				seenVar[v.Name] = true
			case isVar && seenVar[v.Name]:
				fresh := freshVar()
				r.Terms[i] = fresh
				extra = append(extra, &atom.ComparisonAtom{Left: fresh, Op: atom.EQ, Right: v})
			default:
				fresh := freshVar()
				r.Terms[i] = fresh
				extra = append(extra, &atom.ComparisonAtom{Left: fresh, Op: atom.EQ, Right: t})
			}
		}
	}
	cur.Body = append(cur.Body, extra...)
	return cur
}

func collectVariableNames(q *atom.Query) map[string]bool {
	out := map[string]bool{}
	for _, v := range q.Head.Variables() {
		out[v.Name] = true
	}
	for _, a := range q.Body {
		switch at := a.(type) {
		case *atom.RelationalAtom:
			for _, v := range at.Variables() {
				out[v.Name] = true
			}
		case *atom.ComparisonAtom:
			if v, ok := at.Left.(term.Variable); ok {
				out[v.Name] = true
			}
			if v, ok := at.Right.(term.Variable); ok {
				out[v.Name] = true
			}
		}
	}
	return out
}

// Plan normalizes q and builds a left-deep operator tree over cat, applying
// selection pushdown and equi-join grouping per §4.4.
func Plan(q *atom.Query, cat *catalog.Catalog) (operator.Operator, error) {
	normalized := Normalize(q)

	if unsafeVar, safe := normalized.SafetyCheck(); !safe {
		return nil, errs.Wrapf(errs.MalformedInput, "head variable %s does not appear in any body relational atom", unsafeVar)
	}

	rels := atom.RelationalAtoms(normalized.Body)
	if len(rels) == 0 {
		return nil, errs.Wrap(errs.MalformedInput, "query body contains no relational atoms")
	}
	comparisons := atom.ComparisonAtoms(normalized.Body)

	selects, err := groupStandaloneByRelation(rels, comparisons)
	if err != nil {
		return nil, err
	}
	joins, err := groupJoinPredicatesByRelation(rels, comparisons)
	if err != nil {
		return nil, err
	}

	leaves := make([]operator.Operator, len(rels))
	for i, r := range rels {
		schema, err := cat.Lookup(r.Name)
		if err != nil {
			return nil, err
		}
		if schema.Arity() != r.Arity() {
			return nil, errs.Wrapf(errs.MalformedInput, "%s: query arity %d does not match schema arity %d", r.Name, r.Arity(), schema.Arity())
		}

		scan := operator.NewScan(schema, r)
		if preds := selects[r]; len(preds) > 0 {
			leaves[i] = operator.NewSelect(r, preds, scan)
		} else {
			leaves[i] = scan
		}
	}

	root, leftAtoms := buildJoinTree(rels, leaves, joins)

	if normalized.Head.Sum == nil {
		return operator.NewProject(leftAtoms, normalized.Head.Terms, root), nil
	}
	return operator.NewSumAggregate(leftAtoms, normalized.Head.Terms, normalized.Head.Sum.ProductTerms, root), nil
}

// buildJoinTree folds leaves left-to-right into a left-deep tree, tracking
// (via a Pair, echoing the source's performJoinsIteratively) the list of
// RelationalAtoms accumulated on the left so far alongside the operator
// that produces them.
func buildJoinTree(rels []*atom.RelationalAtom, leaves []operator.Operator, joins map[*atom.RelationalAtom][]*atom.ComparisonAtom) (operator.Operator, []*atom.RelationalAtom) {
	if len(rels) == 1 {
		return leaves[0], []*atom.RelationalAtom{rels[0]}
	}

	acc := pair.Pair[[]*atom.RelationalAtom, operator.Operator]{
		First:  []*atom.RelationalAtom{rels[0]},
		Second: leaves[0],
	}

	for i := 1; i < len(rels); i++ {
		right := rels[i]
		joined := operator.NewJoin(acc.First, right, acc.Second, leaves[i], joins[right])
		nextAtoms := make([]*atom.RelationalAtom, len(acc.First)+1)
		copy(nextAtoms, acc.First)
		nextAtoms[len(acc.First)] = right
		acc = pair.Pair[[]*atom.RelationalAtom, operator.Operator]{First: nextAtoms, Second: joined}
	}

	return acc.Second, acc.First
}

// hasAtMostOneVariable reports whether c has zero or one variable operand.
func hasAtMostOneVariable(c *atom.ComparisonAtom) bool {
	_, lv := c.Left.(term.Variable)
	_, rv := c.Right.(term.Variable)
	return !(lv && rv)
}

func relContainsTerm(r *atom.RelationalAtom, t term.Term) bool {
	for _, rt := range r.Terms {
		if rt == t {
			return true
		}
	}
	return false
}

// isWithinSingleRelation reports whether c can be evaluated using a single
// relational atom's tuple alone: it involves at most one variable, or both
// of its variables occur in the same relational atom.
func isWithinSingleRelation(c *atom.ComparisonAtom, rels []*atom.RelationalAtom) bool {
	if hasAtMostOneVariable(c) {
		return true
	}
	for _, r := range rels {
		if relContainsTerm(r, c.Left) && relContainsTerm(r, c.Right) {
			return true
		}
	}
	return false
}

// spansTwoRelations reports whether some relational atom contains exactly
// one of c's two variable operands — the signature of a join condition.
func spansTwoRelations(c *atom.ComparisonAtom, rels []*atom.RelationalAtom) bool {
	if hasAtMostOneVariable(c) {
		return false
	}
	for _, r := range rels {
		if relContainsTerm(r, c.Left) != relContainsTerm(r, c.Right) {
			return true
		}
	}
	return false
}

func isStandalone(c *atom.ComparisonAtom, rels []*atom.RelationalAtom) bool {
	return isWithinSingleRelation(c, rels) || !spansTwoRelations(c, rels)
}

func isJoinPredicate(c *atom.ComparisonAtom, rels []*atom.RelationalAtom) bool {
	return spansTwoRelations(c, rels)
}

// containedInRelation reports whether every variable operand of c occurs in
// r (constants are always considered contained).
func containedInRelation(c *atom.ComparisonAtom, r *atom.RelationalAtom) bool {
	leftOK := term.IsConstant(c.Left) || relContainsTerm(r, c.Left)
	rightOK := term.IsConstant(c.Right) || relContainsTerm(r, c.Right)
	return leftOK && rightOK
}

// groupStandaloneByRelation assigns each standalone comparison atom to the
// first relation (in body order) whose variables cover it, per §4.4's
// selection pushdown. A standalone comparison that matches no relation is a
// planner bug, not a user error: its variables would have to be free of any
// relational atom despite the safety check already having passed.
func groupStandaloneByRelation(rels []*atom.RelationalAtom, comparisons []*atom.ComparisonAtom) (map[*atom.RelationalAtom][]*atom.ComparisonAtom, error) {
	out := make(map[*atom.RelationalAtom][]*atom.ComparisonAtom)
	for _, c := range comparisons {
		if !isStandalone(c, rels) {
			continue
		}
		attached := false
		for _, r := range rels {
			if containedInRelation(c, r) {
				out[r] = append(out[r], c)
				attached = true
				break
			}
		}
		if !attached {
			return nil, errs.Wrapf(errs.PlannerInvariant, "standalone comparison %s does not belong to any relation", c)
		}
	}
	return out, nil
}

// groupJoinPredicatesByRelation assigns each join comparison atom to the
// first relation, scanning body order right-to-left, that contains one of
// its terms — the MultiMap of §9, realized as a plain map keyed by
// RelationalAtom pointer identity.
func groupJoinPredicatesByRelation(rels []*atom.RelationalAtom, comparisons []*atom.ComparisonAtom) (map[*atom.RelationalAtom][]*atom.ComparisonAtom, error) {
	out := make(map[*atom.RelationalAtom][]*atom.ComparisonAtom)
	for _, c := range comparisons {
		if !isJoinPredicate(c, rels) {
			continue
		}
		owner, err := ownerFromRight(c, rels)
		if err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], c)
	}
	return out, nil
}

func ownerFromRight(c *atom.ComparisonAtom, rels []*atom.RelationalAtom) (*atom.RelationalAtom, error) {
	for i := len(rels) - 1; i >= 0; i-- {
		if relContainsTerm(rels[i], c.Left) || relContainsTerm(rels[i], c.Right) {
			return rels[i], nil
		}
	}
	return nil, errs.Wrapf(errs.PlannerInvariant, "join predicate %s belongs to no known relation", c)
}
