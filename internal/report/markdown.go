package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/confport/confport/internal/model"
)

// MarkdownWriter outputs the summary as GitHub-flavored Markdown,
// suited for pasting into migration notes or pull requests.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary.
func (w *MarkdownWriter) Write(result *model.ExportResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	assets := result.TotalAssets()

	md.H1("Export Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root page", "`" + result.RootID + "`"},
			{"Pages exported", strconv.Itoa(len(result.Pages))},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Elapsed.Round(time.Millisecond).String()},
			{"Links rewritten", strconv.Itoa(result.TotalRewrittenLinks())},
			{"Images inlined", strconv.Itoa(assets.Succeeded)},
			{"Image failures", strconv.Itoa(assets.Failed)},
			{"Unique image fetches", strconv.Itoa(assets.UniqueFetched)},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	rows := make([][]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		output := p.OutputFile
		if output == "" {
			output = "-"
		}
		rows = append(rows, []string{
			"`" + p.Document.ID + "`",
			p.Document.Title,
			strconv.Itoa(p.Depth),
			strconv.Itoa(p.Assets.Succeeded),
			strconv.Itoa(p.Assets.Failed),
			output,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Title", "Depth", "Inlined", "Failed", "Artifact"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
