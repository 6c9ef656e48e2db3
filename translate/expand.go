package translate

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// JSONLDExpander is the production Expander, backed by json-gold's
// RDF-conversion algorithm. A nil Loader falls back to json-gold's default
// document loader (plain HTTP(S) fetches); callers that need to pin
// contexts to a local set, the way a verifier must to avoid trusting
// whatever a presentation's @context happens to point at, should supply
// one.
type JSONLDExpander struct {
	Loader ld.DocumentLoader
}

// NewJSONLDExpander returns a JSONLDExpander using loader to resolve
// JSON-LD contexts during expansion.
func NewJSONLDExpander(loader ld.DocumentLoader) *JSONLDExpander {
	return &JSONLDExpander{Loader: loader}
}

// Expand RDF-expands doc and returns the quads of its default graph.
func (e *JSONLDExpander) Expand(doc map[string]any) ([]*ld.Quad, error) {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	if e.Loader != nil {
		options.DocumentLoader = e.Loader
	}

	result, err := proc.ToRDF(doc, options)
	if err != nil {
		return nil, fmt.Errorf("jsonld expand: %w", err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld expand: unexpected ToRDF result type %T", result)
	}
	return dataset.GetQuads("@default"), nil
}
