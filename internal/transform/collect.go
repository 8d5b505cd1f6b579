package transform

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/confport/confport/internal/confluence"
)

// CollectLinkedIDs returns the IDs of other source pages the document links
// to, in document order, deduplicated. The document's own ID is excluded so
// self-links never re-enter the crawl frontier.
func CollectLinkedIDs(doc *goquery.Document, selfID string, base *url.URL) []string {
	seen := make(map[string]bool)
	var ids []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		id, ok := confluence.PageID(base, href)
		if !ok || id == selfID || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}
