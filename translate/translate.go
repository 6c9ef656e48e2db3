// Package translate implements the presentation-to-claim-graph translator
// (spec C2): it turns an already JSON-LD-expanded verifiable presentation
// into an explicit-ethos claim graph, where every triple asserted by a
// credential is reified as "issuer I claims (s, p, o)" rather than taken as
// an absolute fact.
package translate

import (
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/dock-io/rdf2020check/term"
)

// ClaimsV1 is the reification predicate under which a credential's claims
// are attributed to their issuer.
const ClaimsV1 = "https://www.dock.io/rdf2020#claimsV1"

// RDF reification vocabulary.
const (
	rdfSubject   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#subject"
	rdfPredicate = "http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate"
	rdfObject    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#object"
)

// Presentation is a parsed (but not yet JSON-LD expanded) verifiable
// presentation document.
type Presentation map[string]any

// Credential is a parsed verifiable credential, as found in a
// presentation's verifiableCredential property.
type Credential map[string]any

// Expander is the external expand(jsonld) → rdf_dataset oracle (spec §6):
// RDF-expand a single JSON-LD document and return the quads of its default
// graph. JSON-LD expansion and RDF dataset canonicalization are named out
// of scope for the core (spec §1); this is the seam at which a real
// implementation is plugged in.
type Expander interface {
	Expand(doc map[string]any) ([]*ld.Quad, error)
}

// Translate converts a presentation into an explicit-ethos claim graph
// (spec §4.2). Each credential in the presentation's verifiableCredential
// property is expanded separately, with its proof block stripped first, so
// that the claim graph attributes triples to the correct issuer and the
// credential's own signature material never becomes part of the claims.
//
// Per-credential claim graphs are combined with term.Union, which freshens
// every blank node in the credential being merged in — this is what keeps
// the blank-node sets of two credentials disjoint after translation (spec
// §8 testable property 3), since every credential independently introduces
// its own reification blanks plus whatever blanks its own RDF content
// contained.
func Translate(pres Presentation, expander Expander) (*term.ClaimGraph, error) {
	creds, err := verifiableCredentials(pres)
	if err != nil {
		return nil, err
	}

	out := term.New()
	for idx, cred := range creds {
		issuer, err := issuerIRI(cred)
		if err != nil {
			return nil, fmt.Errorf("translate: credential %d: %w", idx, err)
		}

		quads, err := expander.Expand(withoutProof(cred))
		if err != nil {
			return nil, fmt.Errorf("translate: credential %d: expand: %w", idx, err)
		}

		claims, err := reify(issuer, quads)
		if err != nil {
			return nil, fmt.Errorf("translate: credential %d: %w", idx, err)
		}
		out = term.Union(out, claims)
	}
	return out, nil
}

// reify builds the four-triples-per-claim explicit-ethos graph for one
// credential's RDF quads, attributed to issuer.
func reify(issuer term.IRI, quads []*ld.Quad) (*term.ClaimGraph, error) {
	cg := term.New()
	for _, q := range quads {
		s, err := quadNodeToTerm(q.Subject)
		if err != nil {
			return nil, err
		}
		p, err := quadNodeToTerm(q.Predicate)
		if err != nil {
			return nil, err
		}
		o, err := quadNodeToTerm(q.Object)
		if err != nil {
			return nil, err
		}

		b := term.FreshBlank()
		cg.Add(term.Triple{Subject: issuer, Predicate: term.IRI(ClaimsV1), Object: b})
		cg.Add(term.Triple{Subject: b, Predicate: term.IRI(rdfSubject), Object: s})
		cg.Add(term.Triple{Subject: b, Predicate: term.IRI(rdfPredicate), Object: p})
		cg.Add(term.Triple{Subject: b, Predicate: term.IRI(rdfObject), Object: o})
	}
	return cg, nil
}

// quadNodeToTerm converts a json-gold RDF node into a term.Term. Language
// tags and datatypes are carried through verbatim — the translator never
// normalizes a datatype JSON-LD expansion produced (spec §9).
func quadNodeToTerm(n ld.Node) (term.Term, error) {
	switch {
	case ld.IsIRI(n):
		return term.IRI(n.(ld.IRI).Value), nil
	case ld.IsBlankNode(n):
		return term.Blank(n.(ld.BlankNode).Attribute), nil
	case ld.IsLiteral(n):
		lit := n.(ld.Literal)
		return term.Literal{Value: lit.Value, Datatype: lit.Datatype, Language: lit.Language}, nil
	default:
		return nil, fmt.Errorf("translate: unrecognized RDF node type %T", n)
	}
}

// verifiableCredentials normalizes the verifiableCredential property, which
// per the VC data model may be a single credential object or an array of
// them, into a slice.
func verifiableCredentials(pres Presentation) ([]Credential, error) {
	raw, ok := pres["verifiableCredential"]
	if !ok {
		return nil, nil
	}
	switch v := raw.(type) {
	case []any:
		out := make([]Credential, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("translate: verifiableCredential[%d] is not an object", i)
			}
			out = append(out, Credential(m))
		}
		return out, nil
	case map[string]any:
		return []Credential{Credential(v)}, nil
	default:
		return nil, fmt.Errorf("translate: verifiableCredential has unexpected type %T", raw)
	}
}

// issuerIRI extracts a credential's issuer as an IRI. The issuer property
// may be a bare string or an object carrying an "id".
func issuerIRI(cred Credential) (term.IRI, error) {
	raw, ok := cred["issuer"]
	if !ok {
		return "", fmt.Errorf("credential has no issuer")
	}
	switch v := raw.(type) {
	case string:
		return term.IRI(v), nil
	case map[string]any:
		id, ok := v["id"].(string)
		if !ok {
			return "", fmt.Errorf("credential issuer object has no string id")
		}
		return term.IRI(id), nil
	default:
		return "", fmt.Errorf("credential issuer has unexpected type %T", raw)
	}
}

// withoutProof returns a shallow copy of cred with its proof block removed,
// so that a credential's signature material never reaches JSON-LD
// expansion as part of its asserted content (spec §4.2).
func withoutProof(cred Credential) map[string]any {
	out := make(map[string]any, len(cred))
	for k, v := range cred {
		if k == "proof" {
			continue
		}
		out[k] = v
	}
	return out
}
