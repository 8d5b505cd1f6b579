package transform

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removedElements are stripped outright: they carry no content the target
// system can use, and scripts and styles would leak source-system chrome.
const removedElements = "script,style,meta,link,noscript"

// allowedAttrs is the attribute allow-list applied to every element that
// survives sanitization. Everything outside it is dropped, which includes
// the entire data-* namespace and the class attribute; the id attribute is
// special-cased separately.
var allowedAttrs = map[string]bool{
	"href":        true, // reference target
	"src":         true, // media source
	"alt":         true,
	"title":       true,
	"colspan":     true,
	"rowspan":     true,
	"target":      true,
	"rel":         true,
	"width":       true,
	"height":      true,
	"role":        true,
	"aria-label":  true,
	"aria-hidden": true,
	"name":        true, // legacy anchor name
	"style":       true,
}

// Sanitize strips non-content elements and reduces every remaining element
// to the attribute allow-list.
//
// The id attribute survives only when it equals the wrapper marker, when
// keepAllIDs is set, or when it is a member of the protected set built by
// the reference resolver. Everything else, including every data-* attribute
// and class, is removed under all configurations.
func Sanitize(doc *goquery.Document, protected ProtectedIDs, keepAllIDs bool) {
	doc.Find(removedElements).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			var kept []html.Attribute
			for _, attr := range node.Attr {
				switch {
				case attr.Key == "id":
					if attr.Val == WrapperID || keepAllIDs || protected.Has(attr.Val) {
						kept = append(kept, attr)
					}
				case allowedAttrs[attr.Key]:
					kept = append(kept, attr)
				}
			}
			node.Attr = kept
		}
	})
}
