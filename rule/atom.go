// Package rule implements the rule model: atoms with bound/unbound slots,
// rules, substitution and unification primitives, and the proof-step data
// type (its JSON encoding lives in package wire).
package rule

import (
	"fmt"

	"github.com/dock-io/rdf2020check/term"
)

// Slot is one position of an Atom: either a concrete term (Bound) or a
// rule-local variable name (Unbound). Exactly one of the two is set.
type Slot struct {
	bound   term.Term
	unbound string
	isBound bool
}

// Bound constructs a slot holding a concrete term.
func Bound(t term.Term) Slot {
	return Slot{bound: t, isBound: true}
}

// Unbound constructs a slot holding a rule-local variable name.
func Unbound(name string) Slot {
	return Slot{unbound: name}
}

// IsBound reports whether the slot holds a concrete term.
func (s Slot) IsBound() bool { return s.isBound }

// Term returns the bound term and true, or the zero Term and false if the
// slot is unbound.
func (s Slot) Term() (term.Term, bool) {
	if !s.isBound {
		return nil, false
	}
	return s.bound, true
}

// Var returns the variable name and true, or "" and false if the slot is
// bound.
func (s Slot) Var() (string, bool) {
	if s.isBound {
		return "", false
	}
	return s.unbound, true
}

func (s Slot) String() string {
	if s.isBound {
		return s.bound.String()
	}
	return "?" + s.unbound
}

// Atom is a triple template: each of its three slots is either a concrete
// term or a rule-local variable.
type Atom struct {
	Subject   Slot
	Predicate Slot
	Object    Slot
}

func (a Atom) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Subject, a.Predicate, a.Object)
}

// slots returns the atom's three slots in subject/predicate/object order,
// the fixed iteration order used throughout this package.
func (a Atom) slots() [3]Slot {
	return [3]Slot{a.Subject, a.Predicate, a.Object}
}
