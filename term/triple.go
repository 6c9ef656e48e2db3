package term

import "fmt"

// Triple is an ordered (subject, predicate, object) of terms. The core does
// not enforce that predicates are IRIs, to stay permissive toward rule
// authors constructing intermediate atoms.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// TripleEq reports structural equality of two triples.
func TripleEq(a, b Triple) bool {
	return a == b
}
