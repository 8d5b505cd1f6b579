package transform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/confport/confport/internal/confluence"
)

// ResolveResult is the outcome of a reference-resolution pass.
type ResolveResult struct {
	// Protected holds every element ID that incoming links now depend on.
	// Ownership transfers to the caller, which hands it to the sanitizer.
	Protected ProtectedIDs

	// RewrittenLinks counts links rewritten to local hash form.
	RewrittenLinks int
}

// ResolveReferences rewrites the document's intra-document references so
// they survive import into a system that knows nothing about the source
// wiki's anchor conventions.
//
// The pass, in order:
//  1. Normalizes every hash-only link and protects its target ID.
//  2. Rewrites absolute links that target this same document with a
//     fragment to local hash form, replacing machine-rendered URL text
//     with a human label.
//  3. Indexes headings (h1-h6) by normalized text; existing heading IDs
//     are protected.
//  4. Copies structured heading-anchor IDs onto headings matched by the
//     link's visible text.
//  5. Matches remaining hash links against the heading index by their
//     de-hyphenated token, generating heading IDs where needed.
//  6. Copies legacy name attributes onto anchors as IDs.
//
// Anchors that resolve to nothing are left untouched; a miss is not an
// error. The pass is idempotent: running it on already-normalized markup
// changes nothing.
func ResolveReferences(doc *goquery.Document, pageID string, base *url.URL) ResolveResult {
	res := ResolveResult{Protected: NewProtectedIDs()}

	resolveLocalHashes(doc, res.Protected)
	res.RewrittenLinks = localizeSelfLinks(doc, pageID, base, res.Protected)

	idx := indexHeadings(doc, res.Protected)
	adoptStructuredAnchors(doc, idx, res.Protected)
	matchAnchorsToHeadings(doc, idx, res.Protected)
	promoteNameAnchors(doc, res.Protected)

	return res
}

// resolveLocalHashes canonicalizes every hash-only link and protects its
// normalized target.
func resolveLocalHashes(doc *goquery.Document, protected ProtectedIDs) {
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		normalized := NormalizeHash(href)
		if normalized == "" {
			return
		}
		if href != "#"+normalized {
			s.SetAttr("href", "#"+normalized)
		}
		protected.Add(normalized)
	})
}

// localizeSelfLinks rewrites links whose absolute URL targets this same
// document with a fragment. When the visible text is the machine-rendered
// URL of that anchor, it is replaced with the text of the element bearing
// the target ID, falling back to the de-hyphenated token.
func localizeSelfLinks(doc *goquery.Document, pageID string, base *url.URL, protected ProtectedIDs) int {
	rewritten := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(u)
		if abs.Fragment == "" {
			return
		}
		id, ok := confluence.PageID(base, href)
		if !ok || id != pageID {
			return
		}

		frag := NormalizeHash(abs.Fragment)
		s.SetAttr("href", "#"+frag)
		protected.Add(frag)
		rewritten++

		text := strings.TrimSpace(s.Text())
		if hasURLScheme(text) && strings.Contains(text, pageID) && strings.Contains(text, "#") {
			label := textOfID(doc, frag)
			if label == "" {
				label = strings.ReplaceAll(frag, "-", " ")
			}
			s.SetText(label)
		}
	})
	return rewritten
}

// indexHeadings builds the normalized-text index over heading levels 1-6.
// The first heading wins when two normalize identically; existing heading
// IDs are protected.
func indexHeadings(doc *goquery.Document, protected ProtectedIDs) map[string]*goquery.Selection {
	idx := make(map[string]*goquery.Selection)
	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, h *goquery.Selection) {
		key := NormalizeHeadingText(h.Text())
		if key == "" {
			return
		}
		if _, ok := idx[key]; !ok {
			idx[key] = h
		}
		if id, ok := h.Attr("id"); ok && id != "" {
			protected.Add(id)
		}
	})
	return idx
}

// adoptStructuredAnchors handles links using the source system's structured
// heading-ID scheme ("PageToken-HeadingToken"). When such a link's visible
// text matches an indexed heading that has no ID yet, the heading adopts the
// link's target ID.
func adoptStructuredAnchors(doc *goquery.Document, idx map[string]*goquery.Selection, protected ProtectedIDs) {
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		token := NormalizeHash(s.AttrOr("href", ""))
		if !strings.Contains(token, "-") {
			return
		}
		key := NormalizeHeadingText(s.Text())
		if key == "" {
			return
		}
		h, ok := idx[key]
		if !ok {
			return
		}
		if id, has := h.Attr("id"); !has || id == "" {
			h.SetAttr("id", token)
			protected.Add(token)
		}
	})
}

// matchAnchorsToHeadings resolves remaining hash links whose decoded token,
// with hyphens treated as spaces, matches an indexed heading. Headings
// without an ID get a generated one; the link is rewritten to point at it.
// Tokens that already resolve to an element are only protected.
func matchAnchorsToHeadings(doc *goquery.Document, idx map[string]*goquery.Selection, protected ProtectedIDs) {
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		token := NormalizeHash(s.AttrOr("href", ""))
		if token == "" {
			return
		}
		if findByID(doc, token).Length() > 0 {
			protected.Add(token)
			return
		}

		key := NormalizeHeadingText(strings.ReplaceAll(token, "-", " "))
		h, ok := idx[key]
		if !ok {
			// Unresolvable anchor: leave the link untouched.
			return
		}

		id, has := h.Attr("id")
		if !has || id == "" {
			id = generateHeadingID(doc, key)
			h.SetAttr("id", id)
		}
		s.SetAttr("href", "#"+id)
		protected.Add(id)
	})
}

// generateHeadingID derives a deterministic ID from normalized heading text:
// spaces become hyphens, and collisions with existing document IDs append
// -2, -3, ... in document order.
func generateHeadingID(doc *goquery.Document, key string) string {
	slug := strings.ReplaceAll(key, " ", "-")
	candidate := slug
	for n := 2; findByID(doc, candidate).Length() > 0; n++ {
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
	return candidate
}

// promoteNameAnchors copies the legacy name attribute of anchor elements
// onto their id when missing, and protects the result.
func promoteNameAnchors(doc *goquery.Document, protected ProtectedIDs) {
	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			return
		}
		if id, ok := s.Attr("id"); !ok || id == "" {
			s.SetAttr("id", name)
		}
		if id, ok := s.Attr("id"); ok {
			protected.Add(id)
		}
	})
}

// hasURLScheme reports whether the text starts with an HTTP(S) scheme,
// which is how the source system renders unresolved "smart links".
func hasURLScheme(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}
