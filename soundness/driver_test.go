package soundness

import (
	"errors"
	"testing"

	"github.com/piprate/json-gold/ld"

	"github.com/dock-io/rdf2020check/rule"
	"github.com/dock-io/rdf2020check/term"
	"github.com/dock-io/rdf2020check/translate"
)

type fakeVerifier struct {
	ok  bool
	err error
}

func (f fakeVerifier) Verify(translate.Presentation) (bool, error) { return f.ok, f.err }

type fakeExpander struct {
	quads []*ld.Quad
}

func (f fakeExpander) Expand(map[string]any) ([]*ld.Quad, error) { return f.quads, nil }

func abilityFlightQuad(subject string) *ld.Quad {
	return ld.NewQuad(
		ld.NewIRI(subject),
		ld.NewIRI("https://example.org/Ability"),
		ld.NewIRI("https://example.org/Flight"),
		"@default",
	)
}

func TestCheckSoundnessTamperedCredentialFailsVerification(t *testing.T) {
	pres := translate.Presentation{
		"verifiableCredential": map[string]any{"issuer": "https://example.org/faa"},
	}
	_, err := CheckSoundness(fakeVerifier{ok: false, err: errors.New("signature mismatch")}, fakeExpander{}, pres, nil)
	var verr *VerificationFailedError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v (%T), want *VerificationFailedError", err, err)
	}
}

func TestCheckSoundnessUnconditionalAxiom(t *testing.T) {
	a := term.IRI("https://example.com/a")
	frobs := term.IRI("https://example.com/frobs")
	b := term.IRI("https://example.com/b")

	axiom := rule.Rule{
		Then: []rule.Atom{{Subject: rule.Bound(a), Predicate: rule.Bound(frobs), Object: rule.Bound(b)}},
	}
	pres := translate.Presentation{
		"verifiableCredential": map[string]any{"issuer": "https://example.org/issuer"},
		LogicV1:                []any{map[string]any{"rule_index": 0.0, "instantiations": []any{}}},
	}
	exp := fakeExpander{quads: []*ld.Quad{abilityFlightQuad("https://example.org/joe")}}

	got, err := CheckSoundness(fakeVerifier{ok: true}, exp, pres, []rule.Rule{axiom})
	if err != nil {
		t.Fatalf("CheckSoundness() error = %v", err)
	}
	if !got.Contains(term.Triple{Subject: a, Predicate: frobs, Object: b}) {
		t.Fatal("expected the axiom's head triple in the returned claim graph")
	}
	if got.ByPredicate(term.IRI(translate.ClaimsV1)) == nil {
		t.Fatal("expected the translated credential's claimsV1 triple to survive into the returned graph")
	}
}

func TestCheckSoundnessUnstatedAssumptionFails(t *testing.T) {
	pig := term.IRI("https://example.org/Pig")
	ability := term.IRI("https://example.org/Ability")
	flight := term.IRI("https://example.org/Flight")
	rdfType := term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	firstName := term.IRI("https://example.org/firstName")

	r1 := rule.Rule{
		IfAll: []rule.Atom{
			{Subject: rule.Unbound("pig"), Predicate: rule.Bound(ability), Object: rule.Bound(flight)},
			{Subject: rule.Unbound("pig"), Predicate: rule.Bound(rdfType), Object: rule.Bound(pig)},
		},
		Then: []rule.Atom{
			{Subject: rule.Bound(term.IRI("did:dock:bddap")), Predicate: rule.Bound(firstName), Object: rule.Bound(term.Literal{Value: "Gorgadon"})},
		},
	}

	joe := term.IRI("http://example.com/joeThePig")
	pres := translate.Presentation{
		// the presentation asserts nothing at all about joeThePig flying.
		"verifiableCredential": map[string]any{"issuer": "https://example.org/issuer"},
		LogicV1: []any{
			map[string]any{"rule_index": 0.0, "instantiations": []any{map[string]any{"Iri": string(joe)}}},
		},
	}

	_, err := CheckSoundness(fakeVerifier{ok: true}, fakeExpander{}, pres, []rule.Rule{r1})
	var uerr *UnverifiedAssumptionError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v (%T), want *UnverifiedAssumptionError", err, err)
	}
	// Under explicit-ethos reification F never contains a raw (joe, Ability,
	// Flight)-shaped triple at all, only the claimsV1-wrapped form, so both
	// of rule 1's body atoms are legitimately unverifiable; either is an
	// acceptable witness of the failure.
	possible := []term.Triple{
		{Subject: joe, Predicate: ability, Object: flight},
		{Subject: joe, Predicate: rdfType, Object: pig},
	}
	found := false
	for _, want := range possible {
		if uerr.Triple == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("UnverifiedAssumptionError.Triple = %v, want one of %v", uerr.Triple, possible)
	}
}

func TestCheckSoundnessBadRuleApplication(t *testing.T) {
	axiom := rule.Rule{
		Then: []rule.Atom{{Subject: rule.Bound(term.IRI("a")), Predicate: rule.Bound(term.IRI("p")), Object: rule.Bound(term.IRI("o"))}},
	}
	pres := translate.Presentation{
		"verifiableCredential": map[string]any{"issuer": "https://example.org/issuer"},
		LogicV1: []any{
			map[string]any{"rule_index": 0.0, "instantiations": []any{map[string]any{"Iri": "http://example.com"}}},
		},
	}
	_, err := CheckSoundness(fakeVerifier{ok: true}, fakeExpander{}, pres, []rule.Rule{axiom})
	if err == nil {
		t.Fatal("expected an error for an arity-mismatched proof step")
	}
}

func TestProveCompositeLicensingChain(t *testing.T) {
	faa := term.IRI("https://example.org/faa")
	pigchecker := term.IRI("https://example.org/pigchecker")
	ability := term.IRI("https://example.org/Ability")
	flight := term.IRI("https://example.org/Flight")
	rdfType := term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	pigClass := term.IRI("https://example.org/Pig")
	firstName := term.IRI("foaf:firstName")
	gorgadon := term.Literal{Value: "Gorgadon", Datatype: "http://www.w3.org/1999/02/22-rdf-syntax-ns#PlainLiteral"}
	joe := term.IRI("https://example.org/joe")
	dock := term.IRI("did:dock:bddap")
	claimsV1 := term.IRI(translate.ClaimsV1)
	rdfSubject := term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#subject")
	rdfPredicate := term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate")
	rdfObject := term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#object")

	// gorg: an issuer licensed to claim Ability→Flight and another licensed
	// to claim rdf:type→Pig together let us conclude Gorgadon's name, via
	// two intermediate "licensed" facts.
	ruleLicensedFlight := rule.Rule{
		Then: []rule.Atom{{Subject: rule.Bound(faa), Predicate: rule.Bound(term.IRI("https://example.org/licensedFor")), Object: rule.Bound(ability)}},
	}
	ruleLicensedType := rule.Rule{
		Then: []rule.Atom{{Subject: rule.Bound(pigchecker), Predicate: rule.Bound(term.IRI("https://example.org/licensedFor")), Object: rule.Bound(rdfType)}},
	}
	ruleGorg := rule.Rule{
		IfAll: []rule.Atom{
			{Subject: rule.Bound(faa), Predicate: rule.Bound(term.IRI("https://example.org/licensedFor")), Object: rule.Bound(ability)},
			{Subject: rule.Bound(faa), Predicate: rule.Bound(claimsV1), Object: rule.Unbound("b1")},
			{Subject: rule.Unbound("b1"), Predicate: rule.Bound(rdfSubject), Object: rule.Unbound("pig")},
			{Subject: rule.Unbound("b1"), Predicate: rule.Bound(rdfPredicate), Object: rule.Bound(ability)},
			{Subject: rule.Unbound("b1"), Predicate: rule.Bound(rdfObject), Object: rule.Bound(flight)},
			{Subject: rule.Bound(pigchecker), Predicate: rule.Bound(term.IRI("https://example.org/licensedFor")), Object: rule.Bound(rdfType)},
			{Subject: rule.Bound(pigchecker), Predicate: rule.Bound(claimsV1), Object: rule.Unbound("b2")},
			{Subject: rule.Unbound("b2"), Predicate: rule.Bound(rdfSubject), Object: rule.Unbound("pig")},
			{Subject: rule.Unbound("b2"), Predicate: rule.Bound(rdfPredicate), Object: rule.Bound(rdfType)},
			{Subject: rule.Unbound("b2"), Predicate: rule.Bound(rdfObject), Object: rule.Bound(pigClass)},
		},
		Then: []rule.Atom{
			{Subject: rule.Bound(dock), Predicate: rule.Bound(firstName), Object: rule.Bound(gorgadon)},
		},
	}

	quadsFor := func(issuer string) []*ld.Quad {
		if issuer == string(faa) {
			return []*ld.Quad{abilityFlightQuad(string(joe))}
		}
		return []*ld.Quad{
			ld.NewQuad(ld.NewIRI(string(joe)), ld.NewIRI(string(rdfType)), ld.NewIRI(string(pigClass)), "@default"),
		}
	}

	calls := 0
	exp := &sequencedSoundnessExpander{byIssuer: quadsFor, calls: &calls}

	pres := translate.Presentation{
		"verifiableCredential": []any{
			map[string]any{"issuer": string(faa)},
			map[string]any{"issuer": string(pigchecker)},
		},
	}

	rules := []rule.Rule{ruleLicensedFlight, ruleLicensedType, ruleGorg}

	result, err := ProveComposite(exp, pres, []term.Triple{{Subject: dock, Predicate: firstName, Object: gorgadon}}, rules)
	if err != nil {
		t.Fatalf("ProveComposite() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("expected a non-empty proof for the licensing chain")
	}
}

type sequencedSoundnessExpander struct {
	byIssuer func(issuer string) []*ld.Quad
	calls    *int
}

func (s *sequencedSoundnessExpander) Expand(doc map[string]any) ([]*ld.Quad, error) {
	*s.calls++
	issuer, _ := doc["issuer"].(string)
	return s.byIssuer(issuer), nil
}
