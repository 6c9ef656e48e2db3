package wire

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/dock-io/rdf2020check/rule"
)

// Slot wraps rule.Slot for its JSON encoding: {"Bound": <Term>} or
// {"Unbound": "<var-name>"}.
type Slot struct {
	rule.Slot
}

func (s Slot) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if t, ok := s.Term(); ok {
		if err := enc.WriteToken(jsontext.String("Bound")); err != nil {
			return err
		}
		if err := (Term{t}).MarshalJSONTo(enc); err != nil {
			return err
		}
	} else {
		name, _ := s.Var()
		if err := enc.WriteToken(jsontext.String("Unbound")); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(name)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (s *Slot) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '{' {
		return fmt.Errorf("wire: expected object start for a slot, got %c", tok.Kind())
	}
	keyTok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch keyTok.String() {
	case "Bound":
		var t Term
		if err := t.UnmarshalJSONFrom(dec); err != nil {
			return err
		}
		s.Slot = rule.Bound(t.Term)
	case "Unbound":
		v, err := dec.ReadToken()
		if err != nil {
			return err
		}
		s.Slot = rule.Unbound(v.String())
	default:
		return fmt.Errorf("wire: unknown slot tag %q", keyTok.String())
	}
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '}' {
		return fmt.Errorf("wire: expected object end for a slot, got %c", tok.Kind())
	}
	return nil
}

// Atom wraps rule.Atom for its JSON encoding: a 3-element array of Slot, in
// subject/predicate/object order.
type Atom struct {
	rule.Atom
}

func (a Atom) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, s := range []rule.Slot{a.Subject, a.Predicate, a.Object} {
		if err := (Slot{s}).MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

func (a *Atom) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '[' {
		return fmt.Errorf("wire: expected array start for an atom, got %c", tok.Kind())
	}
	var slots [3]rule.Slot
	for i := range slots {
		var s Slot
		if err := s.UnmarshalJSONFrom(dec); err != nil {
			return err
		}
		slots[i] = s.Slot
	}
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != ']' {
		return fmt.Errorf("wire: atom array must have exactly 3 elements")
	}
	a.Atom = rule.Atom{Subject: slots[0], Predicate: slots[1], Object: slots[2]}
	return nil
}

// Rule wraps rule.Rule for its JSON encoding: {"if_all": [...], "then": [...]}.
type Rule struct {
	rule.Rule
}

func (r Rule) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("if_all")); err != nil {
		return err
	}
	if err := marshalAtoms(enc, r.IfAll); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("then")); err != nil {
		return err
	}
	if err := marshalAtoms(enc, r.Then); err != nil {
		return err
	}
	return enc.WriteToken(jsontext.EndObject)
}

func marshalAtoms(enc *jsontext.Encoder, atoms []rule.Atom) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, a := range atoms {
		if err := (Atom{a}).MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

func (r *Rule) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '{' {
		return fmt.Errorf("wire: expected object start for a rule, got %c", tok.Kind())
	}
	var out rule.Rule
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		atoms, err := unmarshalAtoms(dec)
		if err != nil {
			return err
		}
		switch keyTok.String() {
		case "if_all":
			out.IfAll = atoms
		case "then":
			out.Then = atoms
		default:
			return fmt.Errorf("wire: unknown rule field %q", keyTok.String())
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	r.Rule = out
	return nil
}

func unmarshalAtoms(dec *jsontext.Decoder) ([]rule.Atom, error) {
	if tok, err := dec.ReadToken(); err != nil {
		return nil, err
	} else if tok.Kind() != '[' {
		return nil, fmt.Errorf("wire: expected array start for an atom list, got %c", tok.Kind())
	}
	var out []rule.Atom
	for dec.PeekKind() != ']' {
		var a Atom
		if err := a.UnmarshalJSONFrom(dec); err != nil {
			return nil, err
		}
		out = append(out, a.Atom)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return out, nil
}
