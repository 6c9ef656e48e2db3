package wire

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/dock-io/rdf2020check/term"
)

// ParseTermFromString parses a term written in a small debug notation:
//
//	<https://example.com/a>        an IRI
//	_:b0                           a blank node
//	"hello"                        a plain xsd:string literal
//	"hello"@en                     a language-tagged literal
//	"42"^^<http://.../integer>     a literal with an explicit datatype IRI
//
// This exists for tests and ad-hoc debugging, not for the wire format
// itself, which is JSON (see Term.MarshalJSONTo).
func ParseTermFromString(input string) (term.Term, error) {
	return parseTermFromReader(strings.NewReader(input))
}

func parseTermFromReader(r io.Reader) (term.Term, error) {
	var s scanner.Scanner
	s.Init(r)
	s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanChars
	s.IsIdentRune = func(ch rune, i int) bool {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9' && i > 0) || ch == '_' || ch == ':'
	}

	tok := s.Scan()
	switch tok {
	case '<':
		var iri strings.Builder
		for {
			ch := s.Next()
			if ch == scanner.EOF {
				return nil, fmt.Errorf("wire: unterminated IRI starting at %s", s.Pos())
			}
			if ch == '>' {
				break
			}
			iri.WriteRune(ch)
		}
		return term.IRI(iri.String()), nil

	case scanner.Ident:
		text := s.TokenText()
		if rest, ok := strings.CutPrefix(text, "_:"); ok {
			return term.Blank(rest), nil
		}
		return nil, fmt.Errorf("wire: unrecognized identifier %q at %s", text, s.Pos())

	case scanner.String:
		value, err := strconv.Unquote(s.TokenText())
		if err != nil {
			return nil, fmt.Errorf("wire: malformed string literal %q: %w", s.TokenText(), err)
		}
		if s.Peek() == '@' {
			s.Scan() // consume '@'
			tagTok := s.Scan()
			if tagTok != scanner.Ident {
				return nil, fmt.Errorf("wire: expected a language tag after '@' at %s", s.Pos())
			}
			return term.Literal{Value: value, Language: s.TokenText()}, nil
		}
		if s.Peek() == '^' {
			s.Scan() // first '^'
			if s.Scan() != '^' {
				return nil, fmt.Errorf("wire: expected '^^' before a datatype IRI at %s", s.Pos())
			}
			if s.Scan() != '<' {
				return nil, fmt.Errorf("wire: expected '<' to start a datatype IRI at %s", s.Pos())
			}
			var iri strings.Builder
			for {
				ch := s.Next()
				if ch == scanner.EOF {
					return nil, fmt.Errorf("wire: unterminated datatype IRI at %s", s.Pos())
				}
				if ch == '>' {
					break
				}
				iri.WriteRune(ch)
			}
			return term.Literal{Value: value, Datatype: iri.String()}, nil
		}
		return term.Literal{Value: value, Datatype: term.XSDString}, nil

	default:
		return nil, fmt.Errorf("wire: unexpected token %q at %s", s.TokenText(), s.Pos())
	}
}
