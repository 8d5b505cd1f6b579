package pipeline

import (
	"context"
	"log/slog"

	"github.com/confport/confport/internal/config"
	"github.com/confport/confport/internal/confluence"
	"github.com/confport/confport/internal/transform"
)

// InlineStep embeds external images as data URIs.
type InlineStep struct {
	// inliner performs the fetch-and-substitute pass.
	inliner *transform.Inliner
}

// NewInlineStep creates the image-inlining step.
func NewInlineStep(fetcher transform.BinaryFetcher, opts ...transform.InlinerOption) *InlineStep {
	return &InlineStep{inliner: transform.NewInliner(fetcher, opts...)}
}

// Name returns the step name.
func (s *InlineStep) Name() string { return "inline_images" }

// Do executes the inlining pass. Per-asset failures are absorbed into the
// counters; the step itself only fails on cancellation via the fetcher.
func (s *InlineStep) Do(ctx context.Context, page *Page) error {
	page.Result.Assets = s.inliner.Inline(ctx, page.Tree, page.Base)
	return nil
}

// HumanizeStep replaces URL-looking link text with target page titles.
type HumanizeStep struct {
	// titles resolves page IDs to titles, typically the memoizing client.
	titles transform.TitleFetcher

	// limit bounds in-flight title lookups.
	limit int
}

// NewHumanizeStep creates the link-humanizing step.
func NewHumanizeStep(titles transform.TitleFetcher, limit int) *HumanizeStep {
	if limit <= 0 {
		limit = config.DefaultLinkConcurrency
	}
	return &HumanizeStep{titles: titles, limit: limit}
}

// Name returns the step name.
func (s *HumanizeStep) Name() string { return "humanize_links" }

// Do executes the humanizing pass. Failed title lookups leave the original
// text in place and are not errors.
func (s *HumanizeStep) Do(ctx context.Context, page *Page) error {
	transform.HumanizeLinks(ctx, page.Tree, page.Document.ID, page.Base, s.titles, s.limit)
	return nil
}

// ResolveStep rewrites intra-document references and produces the
// protected-ID set the sanitize step depends on.
type ResolveStep struct{}

// NewResolveStep creates the reference-resolution step.
func NewResolveStep() *ResolveStep { return &ResolveStep{} }

// Name returns the step name.
func (s *ResolveStep) Name() string { return "resolve_references" }

// Do executes the resolution pass.
func (s *ResolveStep) Do(_ context.Context, page *Page) error {
	res := transform.ResolveReferences(page.Tree, page.Document.ID, page.Base)
	page.Protected = res.Protected
	page.Result.RewrittenLinks = res.RewrittenLinks
	return nil
}

// CollectStep gathers the IDs of other source pages the transformed
// document links to, feeding the crawl frontier.
type CollectStep struct{}

// NewCollectStep creates the link-collection step.
func NewCollectStep() *CollectStep { return &CollectStep{} }

// Name returns the step name.
func (s *CollectStep) Name() string { return "collect_links" }

// Do executes the collection pass.
func (s *CollectStep) Do(_ context.Context, page *Page) error {
	page.Result.LinkedIDs = transform.CollectLinkedIDs(page.Tree, page.Document.ID, page.Base)
	return nil
}

// SanitizeStep strips non-content markup and unprotected attributes.
// It must run last: earlier steps read attributes it removes.
type SanitizeStep struct {
	// keepAllIDs disables ID stripping entirely.
	keepAllIDs bool
}

// NewSanitizeStep creates the sanitizing step.
func NewSanitizeStep(keepAllIDs bool) *SanitizeStep {
	return &SanitizeStep{keepAllIDs: keepAllIDs}
}

// Name returns the step name.
func (s *SanitizeStep) Name() string { return "sanitize" }

// Do executes the sanitizing pass. A nil protected set (resolve step
// disabled or not yet run) is treated as empty.
func (s *SanitizeStep) Do(_ context.Context, page *Page) error {
	protected := page.Protected
	if protected == nil {
		protected = transform.NewProtectedIDs()
	}
	transform.Sanitize(page.Tree, protected, s.keepAllIDs)
	return nil
}

// Default assembles the standard per-document pipeline in the order the
// transforms depend on each other: inlining and humanization read original
// URLs, resolution produces the protected set, collection reads the
// rewritten links, and sanitization consumes the protected set last.
func Default(client *confluence.Client, cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := New(append([]Option{WithLogger(logger)}, opts...)...)

	if cfg.InlineImages {
		p.AddSteps(NewInlineStep(client,
			transform.WithInlineConcurrency(cfg.ImageConcurrency),
			transform.WithMaxBytes(cfg.MaxImageBytes),
			transform.WithInlineLogger(logger),
		))
	}
	p.AddSteps(
		NewHumanizeStep(client, cfg.LinkConcurrency),
		NewResolveStep(),
		NewCollectStep(),
		NewSanitizeStep(cfg.KeepAllIDs),
	)
	return p
}
