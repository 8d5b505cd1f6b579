package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confport/confport/internal/confluence"
	"github.com/confport/confport/internal/model"
	"github.com/confport/confport/internal/pipeline"
	"github.com/confport/confport/internal/transform"
)

// Exporter crawls the source wiki starting from a root page and runs every
// visited page through the transform pipeline.
type Exporter struct {
	// client fetches pages from the source wiki.
	client *confluence.Client

	// pipe is the per-document transform pipeline. Its steps are stateless
	// across documents, so one instance serves the whole crawl.
	pipe *pipeline.Pipeline

	// recurse enables following links to other source pages.
	recurse bool

	// maxDepth bounds recursion. 0 exports only the root page.
	maxDepth int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRecursion enables or disables following discovered links.
func WithRecursion(recurse bool) Option {
	return func(e *Exporter) {
		e.recurse = recurse
	}
}

// WithMaxDepth sets the recursion bound. 0 means only the root page.
func WithMaxDepth(depth int) Option {
	return func(e *Exporter) {
		if depth >= 0 {
			e.maxDepth = depth
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an Exporter over the given client and pipeline.
func NewExporter(client *confluence.Client, pipe *pipeline.Pipeline, opts ...Option) *Exporter {
	e := &Exporter{
		client: client,
		pipe:   pipe,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// frontierItem is one pending crawl target.
type frontierItem struct {
	id     string
	depth  int
	origin string
}

// Export crawls from rootID and returns one result per visited page, in
// visit order. originURL is the URL the root was specified by, when known;
// pages discovered during the crawl are reached by ID and have no origin.
func (e *Exporter) Export(ctx context.Context, rootID, originURL string) (*model.ExportResult, error) {
	result := &model.ExportResult{
		RootID:    rootID,
		StartedAt: time.Now(),
	}

	frontier := []frontierItem{{id: rootID, depth: 0, origin: originURL}}
	visited := make(map[string]bool)

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		item := frontier[0]
		frontier = frontier[1:]

		// Idempotent re-entry guard: an ID enqueued twice before its first
		// visit is processed only once.
		if visited[item.id] {
			continue
		}
		visited[item.id] = true

		page, err := e.exportOne(ctx, item)
		if err != nil {
			return result, fmt.Errorf("export page %s: %w", item.id, err)
		}
		result.Pages = append(result.Pages, page)

		if e.recurse && item.depth < e.maxDepth {
			for _, linked := range page.LinkedIDs {
				if !visited[linked] {
					frontier = append(frontier, frontierItem{id: linked, depth: item.depth + 1})
				}
			}
		}
	}

	result.Elapsed = time.Since(result.StartedAt)
	e.logger.Info("crawl completed",
		"root", rootID,
		"pages", len(result.Pages),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// exportOne fetches a single page and runs it through the pipeline.
func (e *Exporter) exportOne(ctx context.Context, item frontierItem) (*model.PageResult, error) {
	start := time.Now()

	doc, err := e.client.Page(ctx, item.id)
	if err != nil {
		return nil, err
	}
	if doc.Body == "" {
		return nil, confluence.ErrEmptyContent
	}

	tree, err := transform.Parse(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("parse exported HTML: %w", err)
	}

	page := pipeline.NewPage(doc, tree, e.client.Base(), item.depth, item.origin)
	if err := e.pipe.Execute(ctx, page); err != nil {
		return nil, err
	}

	html, err := transform.Render(tree)
	if err != nil {
		return nil, err
	}
	page.Result.HTML = html
	page.Result.Elapsed = time.Since(start)

	e.logger.Info("page exported",
		"id", doc.ID,
		"title", doc.Title,
		"depth", item.depth,
		"linked", len(page.Result.LinkedIDs),
		"assets_inlined", page.Result.Assets.Succeeded,
		"assets_failed", page.Result.Assets.Failed,
	)
	return page.Result, nil
}
