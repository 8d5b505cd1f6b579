package export

import (
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/confport/confport/internal/model"
)

// Writer writes page artifacts into a directory.
type Writer struct {
	// dir is the output directory, created on first write.
	dir string

	// fullDocument wraps fragments in a standalone HTML document.
	fullDocument bool

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithFullDocument wraps each fragment in a complete HTML document with the
// page title in the head.
func WithFullDocument(full bool) Option {
	return func(w *Writer) {
		w.fullDocument = full
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Write stores one page result as an HTML file and returns the path.
func (w *Writer) Write(page *model.PageResult) (string, error) {
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.dir, FileName(page.Document.Title, page.Document.ID))
	content := page.HTML
	if w.fullDocument {
		content = wrapDocument(page.Document.Title, content)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	w.logger.Debug("artifact written", "path", path, "bytes", len(content))
	return path, nil
}

// FileName derives a safe, unique artifact name from a page title and ID.
// Characters that are unsafe on common filesystems collapse to single
// underscores; the ID keeps names unique when titles collide after
// sanitization.
func FileName(title, id string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		name = "page"
	}
	return name + "_" + id + ".html"
}

// wrapDocument embeds a fragment in a standalone HTML document.
func wrapDocument(title, fragment string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
