package markdown

import "github.com/yaklabco/mdinbox/pkg/docmodel"

// RoundTripResult is the outcome of serializing a document and parsing the
// output back.
type RoundTripResult struct {
	// First is the markdown of the original document.
	First string

	// Second is the markdown of the reparsed document.
	Second string

	// Stable is true when both serializations match and the reparsed
	// document equals the original.
	Stable bool
}

// RoundTrip serializes doc with s, parses the result with p and serializes
// again.
func RoundTrip(p *Parser, s *Serializer, doc *docmodel.Document) RoundTripResult {
	first := s.Serialize(doc)
	reparsed := p.Parse(first).Document
	second := s.Serialize(reparsed)

	return RoundTripResult{
		First:  first,
		Second: second,
		Stable: first == second && docmodel.Equal(doc, reparsed),
	}
}
