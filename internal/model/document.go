package model

// Document is a single page fetched from the source wiki.
// Documents are fetched once and cached immutably by ID for the lifetime
// of the process; nothing mutates a Document after the fetcher returns it.
type Document struct {
	// ID is the numeric page identifier assigned by the source system.
	// It is kept as a string because it is only ever compared and embedded
	// in URLs, never used arithmetically.
	ID string `json:"id"`

	// Title is the page title as stored in the source system.
	Title string `json:"title"`

	// Body is the exported HTML fragment of the page content.
	// This is the export rendering, not the storage format, so it contains
	// plain HTML rather than source-system macros.
	Body string `json:"-"`

	// SpaceKey identifies the space (collection) the page belongs to.
	SpaceKey string `json:"space_key,omitempty"`
}
