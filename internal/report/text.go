package report

import (
	"fmt"
	"io"
	"time"

	"github.com/confport/confport/internal/model"
)

// TextWriter outputs a compact human-readable summary for terminals.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary.
func (w *TextWriter) Write(result *model.ExportResult) (int, error) {
	assets := result.TotalAssets()
	total := 0

	n, err := fmt.Fprintf(w.output,
		"Export of page %s: %d page(s) in %s\n",
		result.RootID, len(result.Pages), result.Elapsed.Round(time.Millisecond))
	total += n
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintf(w.output,
		"Links rewritten: %d  Images inlined: %d  failed: %d  already inline: %d  unique fetches: %d\n",
		result.TotalRewrittenLinks(), assets.Succeeded, assets.Failed, assets.SkippedInline, assets.UniqueFetched)
	total += n
	if err != nil {
		return total, err
	}

	for _, p := range result.Pages {
		location := p.OutputFile
		if location == "" {
			location = "(not written)"
		}
		n, err = fmt.Fprintf(w.output, "  [depth %d] %s (%s) -> %s\n",
			p.Depth, p.Document.Title, p.Document.ID, location)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
