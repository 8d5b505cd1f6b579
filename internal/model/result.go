package model

import "time"

// AssetStats counts the outcomes of one document's image-inlining pass.
//
// Succeeded and Failed are counted per image reference, while UniqueFetched
// counts distinct source URLs, so with three <img> tags pointing at the same
// URL a successful pass yields Succeeded=3, UniqueFetched=1.
type AssetStats struct {
	// Succeeded is the number of image references replaced with a data URI.
	Succeeded int `json:"succeeded"`

	// Failed is the number of image references left untouched because the
	// fetch failed or the asset exceeded the size cap.
	Failed int `json:"failed"`

	// SkippedInline is the number of images that were already self-contained
	// (data: URIs) and required no work.
	SkippedInline int `json:"skipped_inline"`

	// UniqueFetched is the number of distinct source URLs fetched.
	UniqueFetched int `json:"unique_fetched"`
}

// Add accumulates the counters from another pass.
func (s *AssetStats) Add(other AssetStats) {
	s.Succeeded += other.Succeeded
	s.Failed += other.Failed
	s.SkippedInline += other.SkippedInline
	s.UniqueFetched += other.UniqueFetched
}

// PageResult is the outcome of running the full transform pipeline over
// one document.
type PageResult struct {
	// Document is the fetched source page.
	Document *Document `json:"document"`

	// HTML is the transformed, sanitized markup ready for import.
	// Depending on configuration this is either the bare fragment or a
	// complete standalone HTML document.
	HTML string `json:"-"`

	// Depth is the crawl depth at which the page was discovered.
	// The root page has depth 0.
	Depth int `json:"depth"`

	// OriginURL is the URL the page was reached through. Only the root
	// page has a known origin; discovered pages are reached by ID.
	OriginURL string `json:"origin_url,omitempty"`

	// LinkedIDs are the IDs of other source pages referenced by this page
	// after transformation, in document order, deduplicated.
	LinkedIDs []string `json:"linked_ids,omitempty"`

	// RewrittenLinks is the number of same-document links rewritten to
	// local hash form by the reference resolver.
	RewrittenLinks int `json:"rewritten_links"`

	// Assets holds the image-inlining counters for this page.
	Assets AssetStats `json:"assets"`

	// OutputFile is the path of the written artifact, when file output
	// is enabled.
	OutputFile string `json:"output_file,omitempty"`

	// TargetPageID is the ID assigned by the target system when the page
	// was published. Zero in dry-run mode.
	TargetPageID int `json:"target_page_id,omitempty"`

	// Elapsed is how long the per-document pipeline took.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// ExportResult aggregates the outcome of a whole crawl run.
type ExportResult struct {
	// RootID is the ID of the page the crawl started from.
	RootID string `json:"root_id"`

	// Pages holds one result per visited document, in visit order.
	Pages []*PageResult `json:"pages"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total crawl duration.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// TotalAssets returns the accumulated asset counters across all pages.
func (r *ExportResult) TotalAssets() AssetStats {
	var total AssetStats
	for _, p := range r.Pages {
		total.Add(p.Assets)
	}
	return total
}

// TotalRewrittenLinks returns the accumulated same-document rewrite count.
func (r *ExportResult) TotalRewrittenLinks() int {
	var total int
	for _, p := range r.Pages {
		total += p.RewrittenLinks
	}
	return total
}
