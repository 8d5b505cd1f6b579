package pipeline

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/confport/confport/internal/model"
	"github.com/confport/confport/internal/transform"
)

// Page carries one document's mutable state through the pipeline.
type Page struct {
	// Document is the fetched source page.
	Document *model.Document

	// Tree is the mutable HTML tree the steps transform in place.
	Tree *goquery.Document

	// Base is the source wiki base URL used to resolve relative references.
	Base *url.URL

	// Protected is the ID set produced by the resolve step and consumed by
	// the sanitize step. Nil until resolution has run.
	Protected transform.ProtectedIDs

	// Result accumulates counters and discovered links as steps run.
	Result *model.PageResult
}

// NewPage builds the pipeline state for one fetched document.
func NewPage(doc *model.Document, tree *goquery.Document, base *url.URL, depth int, originURL string) *Page {
	return &Page{
		Document: doc,
		Tree:     tree,
		Base:     base,
		Result: &model.PageResult{
			Document:  doc,
			Depth:     depth,
			OriginURL: originURL,
		},
	}
}

// Step is one transform applied to a page.
type Step interface {
	// Do executes the step, mutating the page in place.
	// An error aborts the document's pipeline; recoverable per-item
	// failures (a single asset, a single title lookup) must be handled
	// inside the step and never surface here.
	Do(ctx context.Context, page *Page) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order, stopping at the first error.
//
// A document's pipeline either completes or its failure aborts the whole
// crawl run, so unlike batch scanners there is no continue-on-error mode:
// a half-transformed page must never be emitted.
type Pipeline struct {
	// steps is the ordered list of steps.
	steps []Step

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Add steps with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Execute runs all steps over the page in order.
// Cancellation is checked between steps; steps handle their own timeouts.
func (p *Pipeline) Execute(ctx context.Context, page *Page) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"page", page.Document.ID,
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"page", page.Document.ID,
		)

		if err := step.Do(ctx, page); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"page", page.Document.ID,
				"error", err,
			)
			return err
		}
	}
	return nil
}
