package wire

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/dock-io/rdf2020check/rule"
	"github.com/dock-io/rdf2020check/term"
)

// ProofStep wraps rule.ProofStep for its JSON encoding:
// {"rule_index": <u32>, "instantiations": [<Term>, ...]}.
type ProofStep struct {
	rule.ProofStep
}

func (s ProofStep) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("rule_index")); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.Int(int64(s.RuleIndex))); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("instantiations")); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, t := range s.Instantiations {
		if err := (Term{t}).MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return err
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (s *ProofStep) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '{' {
		return fmt.Errorf("wire: expected object start for a proof step, got %c", tok.Kind())
	}
	var out rule.ProofStep
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		switch keyTok.String() {
		case "rule_index":
			v, err := dec.ReadToken()
			if err != nil {
				return err
			}
			out.RuleIndex = int(v.Int())
		case "instantiations":
			insts, err := unmarshalTerms(dec)
			if err != nil {
				return err
			}
			out.Instantiations = insts
		default:
			return fmt.Errorf("wire: unknown proof step field %q", keyTok.String())
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	s.ProofStep = out
	return nil
}

func unmarshalTerms(dec *jsontext.Decoder) ([]term.Term, error) {
	if tok, err := dec.ReadToken(); err != nil {
		return nil, err
	} else if tok.Kind() != '[' {
		return nil, fmt.Errorf("wire: expected array start for an instantiation list, got %c", tok.Kind())
	}
	var out []term.Term
	for dec.PeekKind() != ']' {
		var t Term
		if err := t.UnmarshalJSONFrom(dec); err != nil {
			return nil, err
		}
		out = append(out, t.Term)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return out, nil
}

// Proof wraps rule.Proof for its JSON encoding: a bare array of ProofStep,
// the shape a presentation carries under the logicV1 property (spec §6).
type Proof struct {
	rule.Proof
}

func (p Proof) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, step := range p.Proof {
		if err := (ProofStep{step}).MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

func (p *Proof) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '[' {
		return fmt.Errorf("wire: expected array start for a proof, got %c", tok.Kind())
	}
	var out rule.Proof
	for dec.PeekKind() != ']' {
		var s ProofStep
		if err := s.UnmarshalJSONFrom(dec); err != nil {
			return err
		}
		out = append(out, s.ProofStep)
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	p.Proof = out
	return nil
}
