// Package export writes transformed pages to disk as HTML artifacts,
// one file per visited page, named from the filesystem-sanitized title
// plus the page ID for uniqueness.
package export
