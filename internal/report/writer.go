package report

import (
	"io"

	"github.com/confport/confport/internal/model"
)

// Writer outputs a crawl summary.
//
// Design decision: We use an interface rather than format flags on one type
// so destinations (stdout, files) and formats compose freely, and so the CLI
// can select a writer once and stay format-agnostic afterwards.
type Writer interface {
	// Write renders the summary and returns the number of bytes written.
	Write(result *model.ExportResult) (int, error)
}

// baseWriter carries the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter over the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
