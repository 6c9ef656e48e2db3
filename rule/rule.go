package rule

import "fmt"

// Rule is a Horn clause over atoms: if every atom of IfAll matches, then
// every atom of Then holds. IfAll == nil encodes an axiom (unconditional
// facts in Then). Any variable appearing in Then must appear in IfAll —
// head variables are body-bound (spec §3 invariants).
type Rule struct {
	IfAll []Atom
	Then  []Atom
}

// Vars returns the rule's variables in canonical first-occurrence order:
// scanning IfAll's atoms in order (subject, predicate, object per atom),
// then Then's atoms the same way. ProofStep.Instantiations is positional
// against this order, which removes any dependency on variable names in
// the wire format (spec §4.4, §9).
func (r Rule) Vars() []string {
	seen := make(map[string]struct{})
	var order []string
	visit := func(atoms []Atom) {
		for _, a := range atoms {
			for _, s := range a.slots() {
				if name, ok := s.Var(); ok {
					if _, dup := seen[name]; !dup {
						seen[name] = struct{}{}
						order = append(order, name)
					}
				}
			}
		}
	}
	visit(r.IfAll)
	visit(r.Then)
	return order
}

// Validate checks the rule's head-variables-are-body-bound invariant: every
// Unbound slot in Then must name a variable that also occurs in IfAll.
func (r Rule) Validate() error {
	bodyVars := make(map[string]struct{})
	for _, a := range r.IfAll {
		for _, s := range a.slots() {
			if name, ok := s.Var(); ok {
				bodyVars[name] = struct{}{}
			}
		}
	}
	for _, a := range r.Then {
		for _, s := range a.slots() {
			if name, ok := s.Var(); ok {
				if _, ok := bodyVars[name]; !ok {
					return fmt.Errorf("rule: head variable %q does not occur in the body", name)
				}
			}
		}
	}
	return nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%v :- %v", r.Then, r.IfAll)
}
