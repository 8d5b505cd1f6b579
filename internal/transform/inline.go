package transform

import (
	"context"
	"encoding/base64"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/confport/confport/internal/config"
	"github.com/confport/confport/internal/model"
)

// BinaryFetcher fetches a binary asset subject to a byte cap.
// *confluence.Client satisfies this; the client decides whether the request
// carries the origin-scoped credential.
type BinaryFetcher interface {
	Binary(ctx context.Context, rawURL string, maxBytes int64) (contentType string, data []byte, err error)
}

// Inliner replaces external image references with self-contained data URIs.
type Inliner struct {
	// fetcher retrieves asset bytes.
	fetcher BinaryFetcher

	// concurrency bounds in-flight asset fetches within one pass.
	concurrency int

	// maxBytes is the per-asset size cap. Zero means uncapped.
	maxBytes int64

	// logger for structured logging.
	logger *slog.Logger
}

// InlinerOption configures an Inliner.
type InlinerOption func(*Inliner)

// WithInlineConcurrency bounds in-flight asset fetches.
func WithInlineConcurrency(n int) InlinerOption {
	return func(in *Inliner) {
		if n > 0 {
			in.concurrency = n
		}
	}
}

// WithMaxBytes sets the per-asset byte cap.
func WithMaxBytes(n int64) InlinerOption {
	return func(in *Inliner) {
		in.maxBytes = n
	}
}

// WithInlineLogger sets a custom logger.
func WithInlineLogger(logger *slog.Logger) InlinerOption {
	return func(in *Inliner) {
		in.logger = logger
	}
}

// NewInliner creates an Inliner using the given fetcher.
func NewInliner(fetcher BinaryFetcher, opts ...InlinerOption) *Inliner {
	in := &Inliner{
		fetcher:     fetcher,
		concurrency: config.DefaultImageConcurrency,
		maxBytes:    config.DefaultMaxImageBytes,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Inline embeds every external image in the document as a data URI.
//
// Image sources are resolved against base and deduplicated, so each unique
// URL is fetched exactly once per pass no matter how often it is referenced.
// Any per-asset failure (network, size cap) keeps that image's original
// reference and increments the failure counter; failures never abort the
// document. The pass returns only after every fetch has completed.
func (in *Inliner) Inline(ctx context.Context, doc *goquery.Document, base *url.URL) model.AssetStats {
	var stats model.AssetStats

	type ref struct {
		sel *goquery.Selection
		abs string
	}
	var refs []ref
	var order []string
	seen := make(map[string]bool)

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if strings.HasPrefix(src, "data:") {
			stats.SkippedInline++
			return
		}
		u, err := url.Parse(src)
		if err != nil {
			stats.Failed++
			in.logger.Warn("unparseable image source kept as-is", "src", src, "error", err)
			return
		}
		abs := base.ResolveReference(u).String()
		refs = append(refs, ref{sel: s, abs: abs})
		if !seen[abs] {
			seen[abs] = true
			order = append(order, abs)
		}
	})

	if len(order) == 0 {
		return stats
	}

	type fetched struct {
		dataURI string
		err     error
	}
	results := make(map[string]fetched, len(order))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.concurrency)
	for _, abs := range order {
		abs := abs
		g.Go(func() error {
			ct, data, err := in.fetcher.Binary(gctx, abs, in.maxBytes)
			f := fetched{err: err}
			if err == nil {
				f.dataURI = "data:" + contentTypeFor(ct, abs) + ";base64," +
					base64.StdEncoding.EncodeToString(data)
			}
			mu.Lock()
			results[abs] = f
			mu.Unlock()
			// Per-asset failures are recovered locally, never propagated.
			return nil
		})
	}
	_ = g.Wait()
	stats.UniqueFetched = len(order)

	for _, r := range refs {
		f := results[r.abs]
		if f.err != nil {
			stats.Failed++
			in.logger.Warn("image inlining failed, original reference kept",
				"src", r.abs,
				"error", f.err,
			)
			continue
		}
		r.sel.SetAttr("src", f.dataURI)
		stats.Succeeded++
	}

	return stats
}

// contentTypeFor derives the MIME type for an asset: the primary token of
// the response Content-Type header, else the file extension, else a generic
// binary default.
func contentTypeFor(header, rawURL string) string {
	if primary := strings.TrimSpace(strings.Split(header, ";")[0]); primary != "" {
		return primary
	}
	if u, err := url.Parse(rawURL); err == nil {
		if t := mime.TypeByExtension(path.Ext(u.Path)); t != "" {
			return strings.TrimSpace(strings.Split(t, ";")[0])
		}
	}
	return "application/octet-stream"
}
