package term

import "github.com/google/uuid"

// ClaimGraph is a set of triples with a disjoint blank-node namespace.
// Duplicate triples collapse to a single element. Triples are additionally
// indexed by predicate, since the saturation loop in package prove is the
// performance-critical path and predicate lookups dominate body-atom
// matching (spec §5, §9 "Graph indexing").
type ClaimGraph struct {
	triples map[Triple]struct{}
	byPred  map[Term][]Triple
}

// New returns an empty claim graph.
func New() *ClaimGraph {
	return &ClaimGraph{
		triples: make(map[Triple]struct{}),
		byPred:  make(map[Term][]Triple),
	}
}

// FromTriples builds a claim graph from a slice of triples, deduplicating.
func FromTriples(ts []Triple) *ClaimGraph {
	cg := New()
	for _, t := range ts {
		cg.Add(t)
	}
	return cg
}

// Add inserts a triple, returning true if it was not already present.
func (cg *ClaimGraph) Add(t Triple) bool {
	if _, ok := cg.triples[t]; ok {
		return false
	}
	cg.triples[t] = struct{}{}
	cg.byPred[t.Predicate] = append(cg.byPred[t.Predicate], t)
	return true
}

// Contains reports whether a triple is a member of the claim graph.
func (cg *ClaimGraph) Contains(t Triple) bool {
	if cg == nil {
		return false
	}
	_, ok := cg.triples[t]
	return ok
}

// Len returns the number of distinct triples.
func (cg *ClaimGraph) Len() int {
	if cg == nil {
		return 0
	}
	return len(cg.triples)
}

// Triples returns all triples in the graph, in no particular order.
func (cg *ClaimGraph) Triples() []Triple {
	if cg == nil {
		return nil
	}
	out := make([]Triple, 0, len(cg.triples))
	for t := range cg.triples {
		out = append(out, t)
	}
	return out
}

// ByPredicate returns the triples whose predicate matches pred. The
// returned slice must not be mutated by the caller.
func (cg *ClaimGraph) ByPredicate(pred Term) []Triple {
	if cg == nil {
		return nil
	}
	return cg.byPred[pred]
}

// Subset reports whether every triple of cg is also in other.
func (cg *ClaimGraph) Subset(other *ClaimGraph) bool {
	for t := range cg.triples {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of the claim graph.
func (cg *ClaimGraph) Clone() *ClaimGraph {
	out := New()
	for t := range cg.triples {
		out.Add(t)
	}
	return out
}

// Merge returns the plain set union of a and b with no blank-node
// renaming. Use this — not Union — when a and b are already known to
// share one blank-node scope, as is the case for a claim graph and the
// implied set a validator derived from it: the validator never introduces
// a blank that did not already come from the claim graph's own body
// instantiations (spec §3 invariants), so renaming here would sever the
// very identity that makes the implied triples meaningful.
func Merge(a, b *ClaimGraph) *ClaimGraph {
	out := a.Clone()
	for _, t := range b.Triples() {
		out.Add(t)
	}
	return out
}

// Union returns the set union of a and b. Blank nodes appearing anywhere in
// b are renamed to fresh labels before the union, so that two
// independently-translated claim graphs can never accidentally share a
// blank-node label and thereby identify two unrelated anonymous entities
// (spec §4.1). The rename is computed once per call so that repeated
// occurrences of the same blank in b map to the same fresh label.
func Union(a, b *ClaimGraph) *ClaimGraph {
	out := a.Clone()
	if b == nil {
		return out
	}
	rename := make(map[Blank]Blank)
	for _, t := range b.Triples() {
		out.Add(Triple{
			Subject:   freshen(t.Subject, rename),
			Predicate: freshen(t.Predicate, rename),
			Object:    freshen(t.Object, rename),
		})
	}
	return out
}

// freshen replaces blank nodes with a fresh label, consistently for
// repeated occurrences of the same original label within one union call.
func freshen(t Term, rename map[Blank]Blank) Term {
	b, ok := t.(Blank)
	if !ok {
		return t
	}
	if fresh, ok := rename[b]; ok {
		return fresh
	}
	fresh := FreshBlank()
	rename[b] = fresh
	return fresh
}

// FreshBlank returns a blank-node label guaranteed not to collide with any
// label generated elsewhere in the process.
func FreshBlank() Blank {
	return Blank(uuid.NewString())
}
