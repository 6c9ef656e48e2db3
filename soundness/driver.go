// Package soundness implements the soundness driver (spec C6): the glue
// that cryptographically verifies a presentation, translates it into a
// claim graph, validates an attached proof against that graph, and returns
// the union of translated and implied claims. This is the entry point a
// verifier actually calls.
package soundness

import (
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/dock-io/rdf2020check/prove"
	"github.com/dock-io/rdf2020check/rule"
	"github.com/dock-io/rdf2020check/term"
	"github.com/dock-io/rdf2020check/translate"
	"github.com/dock-io/rdf2020check/validate"
	"github.com/dock-io/rdf2020check/wire"
)

// LogicV1 is the property under which a presentation carries its attached
// proof, as a JSON literal (spec §6, §9).
const LogicV1 = "https://www.dock.io/rdf2020#logicV1"

// Verifier is the external verify(presentation) → {verified, error} oracle
// (spec §6). Credential signing/verification suites are named out of scope
// for the core; this is the seam at which a real suite is plugged in.
type Verifier interface {
	Verify(pres translate.Presentation) (bool, error)
}

// VerificationFailedError wraps the inner error from a failed
// cryptographic verification of a presentation or credential.
type VerificationFailedError struct {
	Inner error
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("verification failed: %v", e.Inner)
}

func (e *VerificationFailedError) Unwrap() error { return e.Inner }

// UnverifiedAssumptionError reports that the proof's validator-computed
// assumed set contains a triple the translated claim graph does not
// actually attest.
type UnverifiedAssumptionError struct {
	Triple term.Triple
}

func (e *UnverifiedAssumptionError) Error() string {
	return fmt.Sprintf("unverified assumption: %s", e.Triple)
}

// CheckSoundness runs the full verifier-side pipeline (spec §4.6):
//
//  1. cryptographically verify the presentation;
//  2. expand and translate it into a claim graph F (C2);
//  3. extract the attached proof (defaulting to empty if absent) and
//     validate it against rules, without ever consulting F, yielding
//     {assumed, implied} (C5);
//  4. require assumed ⊆ F — any assumption the proof relies on that F does
//     not actually contain is rejected, which is what stops a malicious
//     holder from asserting composite claims built on claims nobody signed;
//  5. return F ∪ implied.
func CheckSoundness(ver Verifier, exp translate.Expander, pres translate.Presentation, rules []rule.Rule) (*term.ClaimGraph, error) {
	ok, err := ver.Verify(pres)
	if err != nil || !ok {
		return nil, &VerificationFailedError{Inner: err}
	}

	facts, err := translate.Translate(pres, exp)
	if err != nil {
		return nil, fmt.Errorf("soundness: translate: %w", err)
	}

	proof, err := extractProof(pres)
	if err != nil {
		return nil, fmt.Errorf("soundness: %w", err)
	}

	assumed, implied, err := validate.Validate(rules, proof)
	if err != nil {
		return nil, err
	}

	for _, a := range assumed.Triples() {
		if !facts.Contains(a) {
			return nil, &UnverifiedAssumptionError{Triple: a}
		}
	}

	return term.Merge(facts, implied), nil
}

// ProveComposite is the holder-side mirror of CheckSoundness: translate the
// presentation into a claim graph, run the prover toward goals, and return
// the resulting proof in the same wire shape CheckSoundness expects to
// find under LogicV1.
func ProveComposite(exp translate.Expander, pres translate.Presentation, goals []term.Triple, rules []rule.Rule) (rule.Proof, error) {
	facts, err := translate.Translate(pres, exp)
	if err != nil {
		return nil, fmt.Errorf("prove_composite: translate: %w", err)
	}
	proof, err := prove.Prove(facts, goals, rules)
	if err != nil {
		return nil, fmt.Errorf("prove_composite: %w", err)
	}
	return proof, nil
}

// extractProof reads the attached proof from pres under LogicV1, returning
// an empty proof if the property is absent. The property's value is a
// JSON-literal proof (spec §6); since pres was already decoded into a
// generic any tree, the value is re-marshaled and decoded through the
// wire package's jsontext-based Proof type to recover its tagged term
// variants.
func extractProof(pres translate.Presentation) (rule.Proof, error) {
	raw, ok := pres[LogicV1]
	if !ok {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogicV1, err)
	}
	var p wire.Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", LogicV1, err)
	}
	return p.Proof, nil
}
