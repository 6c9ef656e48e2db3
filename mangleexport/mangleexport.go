// Package mangleexport bridges a term.ClaimGraph and Mangle's []ast.Atom,
// so that a saturated claim graph can be handed to google/mangle's own
// Datalog engine and tooling (fact stores, query evaluation) instead of
// only the forward-chaining prover in package prove.
//
// Every triple becomes a 2-ary atom whose predicate symbol is the
// triple's predicate term, encoded the same way a predicate would be
// written as a Mangle name, and whose two arguments are the subject and
// object.
package mangleexport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/mangle/ast"

	"github.com/dock-io/rdf2020check/term"
)

const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"

	blankPrefix = "_:"
)

// ToAtoms converts every triple of cg into a 2-ary Mangle atom.
func ToAtoms(cg *term.ClaimGraph) ([]ast.Atom, error) {
	triples := cg.Triples()
	atoms := make([]ast.Atom, 0, len(triples))
	for _, t := range triples {
		symbol, err := predicateSymbol(t.Predicate)
		if err != nil {
			return nil, err
		}
		subj, err := termToConstant(t.Subject)
		if err != nil {
			return nil, fmt.Errorf("mangleexport: subject of %s: %w", t, err)
		}
		obj, err := termToConstant(t.Object)
		if err != nil {
			return nil, fmt.Errorf("mangleexport: object of %s: %w", t, err)
		}
		atoms = append(atoms, ast.Atom{
			Predicate: ast.PredicateSym{Symbol: symbol, Arity: 2},
			Args:      []ast.BaseTerm{subj, obj},
		})
	}
	return atoms, nil
}

// FromAtoms converts a slice of 2-ary Mangle atoms back into a claim graph.
// An atom of any other arity is rejected, since it cannot have come from
// ToAtoms and there is no triple shape for it to recover.
func FromAtoms(atoms []ast.Atom) (*term.ClaimGraph, error) {
	cg := term.New()
	for _, a := range atoms {
		if a.Predicate.Arity != 2 || len(a.Args) != 2 {
			return nil, fmt.Errorf("mangleexport: atom %v is not a 2-ary triple atom", a)
		}
		subjConst, ok := a.Args[0].(ast.Constant)
		if !ok {
			return nil, fmt.Errorf("mangleexport: atom %v has a non-constant subject", a)
		}
		objConst, ok := a.Args[1].(ast.Constant)
		if !ok {
			return nil, fmt.Errorf("mangleexport: atom %v has a non-constant object", a)
		}
		subj, err := constantToTerm(subjConst)
		if err != nil {
			return nil, fmt.Errorf("mangleexport: %w", err)
		}
		obj, err := constantToTerm(objConst)
		if err != nil {
			return nil, fmt.Errorf("mangleexport: %w", err)
		}
		pred, err := predicateTerm(a.Predicate.Symbol)
		if err != nil {
			return nil, err
		}
		cg.Add(term.Triple{Subject: subj, Predicate: pred, Object: obj})
	}
	return cg, nil
}

// predicateSymbol encodes a triple's predicate term as a Mangle predicate
// symbol. Only IRI and Blank predicates are representable: a Literal
// predicate is not meaningful in RDF and the core only permits it because
// rule bodies stay maximally permissive (spec §3).
func predicateSymbol(p term.Term) (string, error) {
	switch v := p.(type) {
	case term.IRI:
		return string(v), nil
	case term.Blank:
		return blankPrefix + string(v), nil
	default:
		return "", fmt.Errorf("mangleexport: predicate %v of type %T cannot be exported", p, p)
	}
}

func predicateTerm(symbol string) (term.Term, error) {
	if rest, ok := strings.CutPrefix(symbol, blankPrefix); ok {
		return term.Blank(rest), nil
	}
	return term.IRI(symbol), nil
}

func termToConstant(t term.Term) (ast.Constant, error) {
	switch v := t.(type) {
	case term.IRI:
		return ast.Name(string(v))
	case term.Blank:
		return ast.Name(blankPrefix + string(v))
	case term.Literal:
		switch v.Datatype {
		case xsdInteger:
			n, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return ast.Constant{}, fmt.Errorf("parse xsd:integer %q: %w", v.Value, err)
			}
			return ast.Number(n), nil
		case xsdDouble:
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				return ast.Constant{}, fmt.Errorf("parse xsd:double %q: %w", v.Value, err)
			}
			return ast.Float64(f), nil
		default:
			// Every other datatype, including a language-tagged string,
			// is carried through as a plain Mangle string. The datatype
			// and language tag do not survive the round trip to ast.Atom;
			// callers that need them back must keep the original claim
			// graph rather than reconstructing it from atoms.
			return ast.String(v.Value), nil
		}
	default:
		return ast.Constant{}, fmt.Errorf("unknown term type %T", t)
	}
}

func constantToTerm(c ast.Constant) (term.Term, error) {
	switch c.Type {
	case ast.NameType:
		sym, err := c.NameValue()
		if err != nil {
			return nil, fmt.Errorf("name value: %w", err)
		}
		if rest, ok := strings.CutPrefix(sym, blankPrefix); ok {
			return term.Blank(rest), nil
		}
		return term.IRI(sym), nil
	case ast.StringType:
		s, err := c.StringValue()
		if err != nil {
			return nil, fmt.Errorf("string value: %w", err)
		}
		return term.Literal{Value: s, Datatype: term.XSDString}, nil
	case ast.NumberType:
		n, err := c.NumberValue()
		if err != nil {
			return nil, fmt.Errorf("number value: %w", err)
		}
		return term.Literal{Value: strconv.FormatInt(n, 10), Datatype: xsdInteger}, nil
	case ast.Float64Type:
		f, err := c.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("float64 value: %w", err)
		}
		return term.Literal{Value: strconv.FormatFloat(f, 'g', -1, 64), Datatype: xsdDouble}, nil
	default:
		return nil, fmt.Errorf("constant of type %v is not representable as a term", c.Type)
	}
}
