package transform

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WrapperID is the ID of the div every exported fragment is wrapped in
// before transformation. The sanitizer always preserves this ID, and
// rendering serializes exactly this element, so transforms cannot leak
// parser-added html/body scaffolding into the output.
const WrapperID = "confport-content"

// ErrNoWrapper is returned when rendering a document whose wrapper element
// has gone missing. This indicates a transform bug, not bad input.
var ErrNoWrapper = errors.New("content wrapper element not found")

// ProtectedIDs is the set of element IDs that must survive sanitization
// because a link depends on them. It is produced by the reference resolver
// and consumed by the sanitizer.
type ProtectedIDs map[string]struct{}

// NewProtectedIDs returns an empty set.
func NewProtectedIDs() ProtectedIDs {
	return make(ProtectedIDs)
}

// Add registers an ID. Empty IDs are ignored.
func (p ProtectedIDs) Add(id string) {
	if id != "" {
		p[id] = struct{}{}
	}
}

// Has reports whether the ID is protected.
func (p ProtectedIDs) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// Parse builds a mutable document tree from an exported HTML fragment,
// wrapped in the marker element.
func Parse(fragment string) (*goquery.Document, error) {
	var b strings.Builder
	b.WriteString(`<div id="`)
	b.WriteString(WrapperID)
	b.WriteString(`">`)
	b.WriteString(fragment)
	b.WriteString(`</div>`)
	return goquery.NewDocumentFromReader(strings.NewReader(b.String()))
}

// Render serializes the wrapper element back to an HTML fragment.
func Render(doc *goquery.Document) (string, error) {
	sel := findByID(doc, WrapperID).First()
	if sel.Length() == 0 {
		return "", ErrNoWrapper
	}
	return goquery.OuterHtml(sel)
}

// findByID returns the elements whose id attribute equals id exactly.
//
// Design decision: We match by attribute comparison instead of a "#id" CSS
// selector because exported anchors routinely contain characters (dots,
// percent-escapes, spaces after decoding) that would need CSS escaping.
func findByID(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("id")
		return ok && v == id
	})
}

// textOfID returns the trimmed text content of the element bearing the ID,
// or empty string when no such element exists.
func textOfID(doc *goquery.Document, id string) string {
	return strings.TrimSpace(findByID(doc, id).First().Text())
}
