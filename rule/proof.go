package rule

import "github.com/dock-io/rdf2020check/term"

// ProofStep names a rule application: the index of the rule in the caller's
// rule slice, and a positional instantiation list matching, in order and
// arity, Rule.Vars() of the referenced rule (spec §3, §4.4).
type ProofStep struct {
	RuleIndex      int
	Instantiations []term.Term
}

// Proof is a finite ordered sequence of rule applications.
type Proof []ProofStep

// Substitution builds the Substitution a proof step implies for rule r,
// binding r.Vars()[i] to Instantiations[i]. It returns (nil, false) if the
// arity of Instantiations does not match the number of variables in r —
// the caller is expected to turn that into an InvalidProof("BadRuleApplication")
// per spec §7.
func (s ProofStep) Substitution(r Rule) (Substitution, bool) {
	vars := r.Vars()
	if len(vars) != len(s.Instantiations) {
		return nil, false
	}
	subst := make(Substitution, len(vars))
	for i, name := range vars {
		subst[name] = s.Instantiations[i]
	}
	return subst, true
}
