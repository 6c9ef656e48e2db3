package rule

import (
	"reflect"
	"testing"

	"github.com/dock-io/rdf2020check/term"
)

func TestVarsCanonicalOrder(t *testing.T) {
	r := Rule{
		IfAll: []Atom{
			{Subject: Unbound("pig"), Predicate: Bound(term.IRI("Ability")), Object: Bound(term.IRI("Flight"))},
			{Subject: Unbound("pig"), Predicate: Bound(term.IRI("type")), Object: Unbound("kind")},
		},
		Then: []Atom{
			{Subject: Unbound("kind"), Predicate: Bound(term.IRI("firstName")), Object: Unbound("name")},
		},
	}
	got := r.Vars()
	want := []string{"pig", "kind", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Vars() = %v, want %v", got, want)
	}
}

func TestRuleValidateRejectsUnboundHeadVar(t *testing.T) {
	r := Rule{
		IfAll: nil,
		Then:  []Atom{{Subject: Unbound("x"), Predicate: Bound(term.IRI("p")), Object: Bound(term.IRI("o"))}},
	}
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error for a head variable absent from the body")
	}
}

func TestUnifyExtendsAndChecksConsistency(t *testing.T) {
	a := Atom{Subject: Unbound("x"), Predicate: Bound(term.IRI("p")), Object: Unbound("x")}
	ok1 := term.Triple{Subject: term.IRI("a"), Predicate: term.IRI("p"), Object: term.IRI("a")}
	subst, ok := Unify(a, ok1, nil)
	if !ok {
		t.Fatal("expected unify to succeed when the repeated variable matches consistently")
	}
	if subst["x"] != term.IRI("a") {
		t.Fatalf("x = %v, want a", subst["x"])
	}

	bad := term.Triple{Subject: term.IRI("a"), Predicate: term.IRI("p"), Object: term.IRI("b")}
	if _, ok := Unify(a, bad, nil); ok {
		t.Fatal("expected unify to fail when the repeated variable binds inconsistently")
	}
}

func TestUnifyDoesNotMutateInput(t *testing.T) {
	base := Substitution{"x": term.IRI("a")}
	a := Atom{Subject: Unbound("y"), Predicate: Bound(term.IRI("p")), Object: Bound(term.IRI("o"))}
	tr := term.Triple{Subject: term.IRI("b"), Predicate: term.IRI("p"), Object: term.IRI("o")}

	out, ok := Unify(a, tr, base)
	if !ok {
		t.Fatal("expected unify to succeed")
	}
	if _, present := base["y"]; present {
		t.Fatal("Unify must not mutate its subst argument")
	}
	if out["x"] != term.IRI("a") || out["y"] != term.IRI("b") {
		t.Fatalf("unexpected result substitution: %v", out)
	}
}

func TestApplySubstRequiresFullGrounding(t *testing.T) {
	a := Atom{Subject: Unbound("x"), Predicate: Bound(term.IRI("p")), Object: Bound(term.IRI("o"))}
	if _, ok := ApplySubst(a, Substitution{}); ok {
		t.Fatal("expected ApplySubst to fail when a variable has no binding")
	}
	tr, ok := ApplySubst(a, Substitution{"x": term.IRI("s")})
	if !ok {
		t.Fatal("expected ApplySubst to succeed once all variables are bound")
	}
	want := term.Triple{Subject: term.IRI("s"), Predicate: term.IRI("p"), Object: term.IRI("o")}
	if tr != want {
		t.Fatalf("ApplySubst() = %v, want %v", tr, want)
	}
}

func TestProofStepSubstitutionArityMismatch(t *testing.T) {
	r := Rule{Then: []Atom{{Subject: Bound(term.IRI("a")), Predicate: Bound(term.IRI("p")), Object: Bound(term.IRI("o"))}}}
	step := ProofStep{RuleIndex: 0, Instantiations: []term.Term{term.IRI("unexpected")}}
	if _, ok := step.Substitution(r); ok {
		t.Fatal("expected arity mismatch to be reported")
	}
}
