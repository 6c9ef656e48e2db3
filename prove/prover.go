// Package prove implements the forward-chaining prover (spec C4): given a
// fact set, a target set of goal triples, and a body of rules, it derives a
// compact witness — an ordered list of rule applications — that a verifier
// can replay with package validate.
package prove

import (
	"fmt"

	"github.com/dock-io/rdf2020check/rule"
	"github.com/dock-io/rdf2020check/term"
)

// CannotProveError is returned when saturation reaches a fixpoint without
// covering every goal triple.
type CannotProveError struct {
	Missing []term.Triple
}

func (e *CannotProveError) Error() string {
	return fmt.Sprintf("cannot prove: %d goal triple(s) unreachable by saturation", len(e.Missing))
}

// Prove runs semi-naive forward chaining from premises under rules until
// either every goal triple is known or saturation reaches a fixpoint. It
// returns a proof whose steps, replayed in order through package validate,
// reconstruct exactly the facts that were added along the way.
//
// The whole function is synchronous and touches no state but its own local
// variables, consistent with the core's purely single-threaded contract
// (spec §5): callers may run many Prove calls concurrently with no
// synchronization of their own.
//
// Axiomatic rules (empty body) fire at most once per distinct head, since a
// newly derived head is only logged if it was not already known.
func Prove(premises *term.ClaimGraph, goals []term.Triple, rules []rule.Rule) (rule.Proof, error) {
	known := premises.Clone()
	var log rule.Proof

	// The first round runs unconditionally (delta == known, and it is the
	// only round in which axioms fire) regardless of whether there are any
	// premises at all; every later round runs only while the previous one
	// actually derived something new.
	delta := known.Clone()
	first := true
	for first || (delta.Len() > 0 && !goalsSatisfied(known, goals)) {
		firstRound := first
		first = false
		nextDelta := term.New()
		for i, r := range rules {
			for _, subst := range matches(r, known, delta, firstRound) {
				heads, ok := rule.ApplySubstAll(r.Then, subst)
				if !ok {
					// A rule whose head variables all occur in its body
					// (rule.Validate enforces this) cannot fail to ground
					// once the body matched; skip defensively rather than
					// trust an unvalidated rule to panic downstream.
					continue
				}
				added := false
				for _, h := range heads {
					if known.Contains(h) {
						continue
					}
					known.Add(h)
					nextDelta.Add(h)
					added = true
				}
				if added {
					log = append(log, rule.ProofStep{
						RuleIndex:      i,
						Instantiations: instantiationsOf(r, subst),
					})
				}
			}
		}
		delta = nextDelta
	}

	if !goalsSatisfied(known, goals) {
		var missing []term.Triple
		for _, g := range goals {
			if !known.Contains(g) {
				missing = append(missing, g)
			}
		}
		return nil, &CannotProveError{Missing: missing}
	}
	return log, nil
}

func goalsSatisfied(known *term.ClaimGraph, goals []term.Triple) bool {
	for _, g := range goals {
		if !known.Contains(g) {
			return false
		}
	}
	return true
}

func instantiationsOf(r rule.Rule, subst rule.Substitution) []term.Term {
	vars := r.Vars()
	out := make([]term.Term, len(vars))
	for i, v := range vars {
		out[i] = subst[v]
	}
	return out
}

// matches returns every substitution under which all of r's body atoms
// hold in known, semi-naively requiring that at least one matched body atom
// came from delta (the facts added in the previous round) — this is what
// keeps the loop from re-deriving, round after round, a combination of
// facts it has already derived from. For an axiomatic rule (no body) it
// returns a single, empty substitution on the very first round only
// (firstRound), since an axiom's head doesn't depend on the fact set at
// all and firing it more than once would be wasted work.
func matches(r rule.Rule, known, delta *term.ClaimGraph, firstRound bool) []rule.Substitution {
	if len(r.IfAll) == 0 {
		if !firstRound {
			return nil
		}
		return []rule.Substitution{{}}
	}
	var out []rule.Substitution
	join(r.IfAll, 0, rule.Substitution{}, known, delta, false, &out)
	return out
}

// join performs a recursive backtracking join over the body atoms of a
// rule, collecting full bindings into out. usedDelta tracks whether some
// atom so far has been matched against a fact drawn from delta.
func join(atoms []rule.Atom, idx int, subst rule.Substitution, known, delta *term.ClaimGraph, usedDelta bool, out *[]rule.Substitution) {
	if idx == len(atoms) {
		if usedDelta {
			*out = append(*out, subst)
		}
		return
	}
	atom := atoms[idx]

	candidatesFor := func(cg *term.ClaimGraph) []term.Triple {
		if pred, ok := atom.Predicate.Term(); ok {
			return cg.ByPredicate(pred)
		}
		// Predicate itself is a variable: fall back to scanning every
		// triple. Rule authors are expected to bind predicates in
		// practice; this is the rare, slow path.
		return cg.Triples()
	}

	for _, t := range candidatesFor(delta) {
		if next, ok := rule.Unify(atom, t, subst); ok {
			join(atoms, idx+1, next, known, delta, true, out)
		}
	}
	for _, t := range candidatesFor(known) {
		if next, ok := rule.Unify(atom, t, subst); ok {
			join(atoms, idx+1, next, known, delta, usedDelta, out)
		}
	}
}
