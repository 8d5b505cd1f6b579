package confluence

import (
	"net/url"
	"strings"
)

// PageID extracts a source page ID from a raw link URL.
//
// Two URL shapes carry an explicit page ID:
//   - the legacy viewer, .../pages/viewpage.action?pageId=12345
//   - the modern path form, .../spaces/KEY/pages/12345/Page+Title
//
// Relative URLs are resolved against base. URLs pointing at a different
// origin never yield an ID, so links to other wikis are not crawled.
func PageID(base *url.URL, raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	u = base.ResolveReference(u)

	if !sameOrigin(u, base) {
		return "", false
	}

	if id := u.Query().Get("pageId"); isDigits(id) {
		return id, true
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "pages" && i+1 < len(segments) && isDigits(segments[i+1]) {
			return segments[i+1], true
		}
	}

	return "", false
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
