package transform

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHash canonicalizes a link fragment: the leading '#' is stripped,
// percent-escapes are decoded, and trailing punctuation (a frequent artifact
// of anchors pasted into prose) is removed.
func NormalizeHash(hash string) string {
	h := strings.TrimPrefix(hash, "#")
	if decoded, err := url.PathUnescape(h); err == nil {
		h = decoded
	}
	return strings.TrimRightFunc(h, unicode.IsPunct)
}

// NormalizeHeadingText canonicalizes heading text for index lookups:
// NFKC-normalized, lowercased, with every run of non-letter/non-digit
// characters collapsed to a single space and the ends trimmed.
//
// NFKC matters because exported headings mix typographic variants (fullwidth
// digits, ligatures) that must compare equal to their plain forms.
func NormalizeHeadingText(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}
