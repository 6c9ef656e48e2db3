// Package wire implements the JSON wire shapes of terms, rules, and proofs
// (spec §6). The pure core packages (term, rule, prove, validate) stay free
// of JSON tags and encoding dependencies; wrapper types here carry
// json.MarshalerTo/UnmarshalerFrom so serialization is a separate, opt-in
// concern at the system's boundary, the same split the teacher draws
// between ast.Constant/ast.Atom and their *JSON wrapper types.
package wire

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/dock-io/rdf2020check/term"
)

// Term wraps term.Term for the tagged-by-sole-key JSON encoding of spec §6:
// {"Iri": "<string>"}, {"Blank": "<string>"}, or
// {"Literal": {"value", "datatype", "language"?}}.
type Term struct {
	term.Term
}

func (t Term) MarshalJSONTo(enc *jsontext.Encoder) error {
	if t.Term == nil {
		return fmt.Errorf("wire: cannot marshal a nil term")
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	switch v := t.Term.(type) {
	case term.IRI:
		if err := enc.WriteToken(jsontext.String("Iri")); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(string(v))); err != nil {
			return err
		}
	case term.Blank:
		if err := enc.WriteToken(jsontext.String("Blank")); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(string(v))); err != nil {
			return err
		}
	case term.Literal:
		if err := enc.WriteToken(jsontext.String("Literal")); err != nil {
			return err
		}
		if err := marshalLiteral(enc, v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("wire: unknown term variant %T", t.Term)
	}
	return enc.WriteToken(jsontext.EndObject)
}

func marshalLiteral(enc *jsontext.Encoder, l term.Literal) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("value")); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String(l.Value)); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String("datatype")); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String(l.Datatype)); err != nil {
		return err
	}
	if l.Language != "" {
		if err := enc.WriteToken(jsontext.String("language")); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(l.Language)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (t *Term) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '{' {
		return fmt.Errorf("wire: expected object start for a term, got %c", tok.Kind())
	}

	keyTok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	if keyTok.Kind() != '"' {
		return fmt.Errorf("wire: expected a tag key, got %c", keyTok.Kind())
	}

	switch keyTok.String() {
	case "Iri":
		v, err := dec.ReadToken()
		if err != nil {
			return err
		}
		t.Term = term.IRI(v.String())
	case "Blank":
		v, err := dec.ReadToken()
		if err != nil {
			return err
		}
		t.Term = term.Blank(v.String())
	case "Literal":
		lit, err := unmarshalLiteral(dec)
		if err != nil {
			return err
		}
		t.Term = lit
	default:
		return fmt.Errorf("wire: unknown term tag %q", keyTok.String())
	}

	if tok, err := dec.ReadToken(); err != nil {
		return err
	} else if tok.Kind() != '}' {
		return fmt.Errorf("wire: expected object end for a term, got %c", tok.Kind())
	}
	return nil
}

func unmarshalLiteral(dec *jsontext.Decoder) (term.Literal, error) {
	if tok, err := dec.ReadToken(); err != nil {
		return term.Literal{}, err
	} else if tok.Kind() != '{' {
		return term.Literal{}, fmt.Errorf("wire: expected object start for a literal, got %c", tok.Kind())
	}

	var lit term.Literal
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return term.Literal{}, err
		}
		valTok, err := dec.ReadToken()
		if err != nil {
			return term.Literal{}, err
		}
		switch keyTok.String() {
		case "value":
			lit.Value = valTok.String()
		case "datatype":
			lit.Datatype = valTok.String()
		case "language":
			lit.Language = valTok.String()
		default:
			return term.Literal{}, fmt.Errorf("wire: unknown literal field %q", keyTok.String())
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return term.Literal{}, err
	}
	return lit, nil
}
