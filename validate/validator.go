// Package validate implements the proof validator (spec C5): it replays a
// proof produced by package prove against a rule set, without ever
// consulting the premise set, and reports the claims the proof assumed
// versus the claims it implied. It is the half of the system an untrusting
// verifier actually has to run.
package validate

import (
	"fmt"

	"github.com/dock-io/rdf2020check/rule"
	"github.com/dock-io/rdf2020check/term"
)

// InvalidProofError reports a structurally broken proof step. Reason is one
// of "BadRuleIndex" (the step names a rule outside the rule slice) or
// "BadRuleApplication" (an arity mismatch, or some atom failed to fully
// ground after substitution).
type InvalidProofError struct {
	StepIndex int
	Reason    string
}

func (e *InvalidProofError) Error() string {
	return fmt.Sprintf("invalid proof at step %d: %s", e.StepIndex, e.Reason)
}

// Validate replays proof against rules and returns the claims it assumed
// and the claims it implied. It never consults a premise set — checking
// assumed against a caller's fact set is the caller's job (package
// soundness does this). Validate is a pure function: calling it twice on
// the same inputs returns equal results.
//
// For each step, in order:
//  1. look up the referenced rule, failing BadRuleIndex if out of range;
//  2. build the substitution implied by the step's instantiations, failing
//     BadRuleApplication on an arity mismatch;
//  3. ground the rule's body and head atoms under that substitution,
//     failing BadRuleApplication if any atom has an unbound variable left;
//  4. any body triple not already implied by an earlier step is added to
//     assumed; every head triple is added to implied.
func Validate(rules []rule.Rule, proof rule.Proof) (assumed, implied *term.ClaimGraph, err error) {
	assumed = term.New()
	implied = term.New()

	for i, step := range proof {
		if step.RuleIndex < 0 || step.RuleIndex >= len(rules) {
			return nil, nil, &InvalidProofError{StepIndex: i, Reason: "BadRuleIndex"}
		}
		r := rules[step.RuleIndex]

		subst, ok := step.Substitution(r)
		if !ok {
			return nil, nil, &InvalidProofError{StepIndex: i, Reason: "BadRuleApplication"}
		}

		body, ok := rule.ApplySubstAll(r.IfAll, subst)
		if !ok {
			return nil, nil, &InvalidProofError{StepIndex: i, Reason: "BadRuleApplication"}
		}
		head, ok := rule.ApplySubstAll(r.Then, subst)
		if !ok {
			return nil, nil, &InvalidProofError{StepIndex: i, Reason: "BadRuleApplication"}
		}

		for _, b := range body {
			if !implied.Contains(b) {
				assumed.Add(b)
			}
		}
		for _, h := range head {
			implied.Add(h)
		}
	}

	return assumed, implied, nil
}
