package transform

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/confport/confport/internal/confluence"
)

// TitleFetcher resolves a source page ID to its title.
// *confluence.Client satisfies this; tests substitute fakes.
type TitleFetcher interface {
	Title(ctx context.Context, id string) (string, error)
}

// HumanizeLinks replaces URL-looking link text with the linked document's
// title for links that target a different source page, and canonicalizes
// same-document hash links to local form.
//
// Title lookups fan out with at most limit in flight; the pass waits for all
// of them before mutating the tree, because goquery trees must not be
// mutated concurrently. A failed lookup leaves that link's text unchanged
// and never blocks or aborts the others.
func HumanizeLinks(ctx context.Context, doc *goquery.Document, pageID string, base *url.URL, titles TitleFetcher, limit int) {
	type target struct {
		sel *goquery.Selection
		id  string
	}
	var targets []target

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		id, ok := confluence.PageID(base, href)
		if !ok {
			return
		}

		if id == pageID {
			// Same document: canonicalize to a local hash link.
			// Idempotent with the reference resolver's rewrite.
			if frag := base.ResolveReference(u).Fragment; frag != "" {
				s.SetAttr("href", "#"+NormalizeHash(frag))
			}
			return
		}

		text := strings.TrimSpace(s.Text())
		if text != "" && !hasURLScheme(text) {
			return
		}
		targets = append(targets, target{sel: s, id: id})
	})

	if len(targets) == 0 {
		return
	}

	if limit <= 0 {
		limit = 1
	}
	resolved := make([]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			title, err := titles.Title(gctx, t.id)
			if err != nil {
				// Silent by contract: the original text stays.
				return nil
			}
			resolved[i] = title
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	for i, t := range targets {
		if resolved[i] != "" {
			t.sel.SetText(resolved[i])
		}
	}
}
