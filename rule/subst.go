package rule

import "github.com/dock-io/rdf2020check/term"

// Substitution maps rule-local variable names to concrete terms.
type Substitution map[string]term.Term

// ApplySlot resolves a single slot against a substitution. It returns the
// resolved term and true if the slot is bound or its variable has a
// binding in subst; it returns false if the slot is an unbound variable
// with no binding.
func ApplySlot(s Slot, subst Substitution) (term.Term, bool) {
	if t, ok := s.Term(); ok {
		return t, true
	}
	name, _ := s.Var()
	t, ok := subst[name]
	return t, ok
}

// ApplySubst grounds an atom's three slots against subst. It returns the
// resulting triple and true only if every slot resolved to a concrete
// term; otherwise it returns the zero Triple and false. The validator
// never introduces new blank nodes: every term in the result came either
// from subst (bound during body matching) or from a Bound slot in the rule
// itself (spec §3 invariants).
func ApplySubst(a Atom, subst Substitution) (term.Triple, bool) {
	s, ok := ApplySlot(a.Subject, subst)
	if !ok {
		return term.Triple{}, false
	}
	p, ok := ApplySlot(a.Predicate, subst)
	if !ok {
		return term.Triple{}, false
	}
	o, ok := ApplySlot(a.Object, subst)
	if !ok {
		return term.Triple{}, false
	}
	return term.Triple{Subject: s, Predicate: p, Object: o}, true
}

// ApplySubstAll grounds every atom in atoms against subst. It returns the
// resulting triples and true only if every atom fully grounded.
func ApplySubstAll(atoms []Atom, subst Substitution) ([]term.Triple, bool) {
	out := make([]term.Triple, 0, len(atoms))
	for _, a := range atoms {
		t, ok := ApplySubst(a, subst)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// Unify matches atom against triple, extending subst. A Bound slot must
// equal the triple's corresponding term. An Unbound slot either extends
// subst with a new binding or, if the variable is already bound, must
// match the existing binding. Unify never mutates its subst argument; it
// returns a new Substitution on success and (nil, false) on failure, so
// that failed unification attempts cannot leak partial bindings into a
// caller's backtracking search.
func Unify(a Atom, t term.Triple, subst Substitution) (Substitution, bool) {
	next := make(Substitution, len(subst)+3)
	for k, v := range subst {
		next[k] = v
	}

	slots := a.slots()
	values := [3]term.Term{t.Subject, t.Predicate, t.Object}

	for i, s := range slots {
		v := values[i]
		if bound, ok := s.Term(); ok {
			if !term.Eq(bound, v) {
				return nil, false
			}
			continue
		}
		name, _ := s.Var()
		if existing, ok := next[name]; ok {
			if !term.Eq(existing, v) {
				return nil, false
			}
			continue
		}
		next[name] = v
	}
	return next, true
}
