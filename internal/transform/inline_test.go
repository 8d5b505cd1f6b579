package transform

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/confport/confport/internal/model"
)

// fakeFetcher serves fixed bytes and records how often each URL is fetched.
type fakeFetcher struct {
	contentType string
	data        []byte
	err         error
	calls       atomic.Int32
}

func (f *fakeFetcher) Binary(_ context.Context, _ string, _ int64) (string, []byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", nil, f.err
	}
	return f.contentType, f.data, nil
}

func TestInline(t *testing.T) {
	t.Parallel()

	t.Run("replaces sources with data URIs", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<img src="/download/attachments/1/a.png" alt="a">`)
		fetcher := &fakeFetcher{contentType: "image/png", data: []byte("fake-png")}
		in := NewInliner(fetcher, WithInlineConcurrency(2))

		stats := in.Inline(context.Background(), doc, mustBase(t))

		src := attrOf(t, doc, "img", "src")
		if !strings.HasPrefix(src, "data:image/png;base64,") {
			t.Errorf("src = %q, want data URI", src)
		}
		if stats.Succeeded != 1 || stats.UniqueFetched != 1 || stats.Failed != 0 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("duplicate references fetch once", func(t *testing.T) {
		t.Parallel()

		img := `<img src="/a.png">`
		doc := mustParse(t, img+img+img)
		fetcher := &fakeFetcher{contentType: "image/png", data: []byte("x")}
		in := NewInliner(fetcher)

		stats := in.Inline(context.Background(), doc, mustBase(t))

		if got := fetcher.calls.Load(); got != 1 {
			t.Errorf("fetches = %d, want 1", got)
		}
		if stats.Succeeded != 3 || stats.UniqueFetched != 1 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("already inline images skipped", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<img src="data:image/gif;base64,R0lGOD=="><img src="/b.png">`)
		fetcher := &fakeFetcher{contentType: "image/png", data: []byte("x")}
		in := NewInliner(fetcher)

		stats := in.Inline(context.Background(), doc, mustBase(t))

		if stats.SkippedInline != 1 || stats.Succeeded != 1 {
			t.Errorf("stats = %+v", stats)
		}
		if got := fetcher.calls.Load(); got != 1 {
			t.Errorf("fetches = %d, want 1", got)
		}
	})

	t.Run("fetch failure keeps original reference", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<img src="/broken.png">`)
		fetcher := &fakeFetcher{err: errors.New("connection reset")}
		in := NewInliner(fetcher)

		stats := in.Inline(context.Background(), doc, mustBase(t))

		if got := attrOf(t, doc, "img", "src"); got != "/broken.png" {
			t.Errorf("src = %q, want original kept", got)
		}
		if stats.Failed != 1 || stats.Succeeded != 0 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("content type falls back to extension", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<img src="/photo.jpg">`)
		fetcher := &fakeFetcher{contentType: "", data: []byte("jpeg")}
		in := NewInliner(fetcher)

		in.Inline(context.Background(), doc, mustBase(t))

		if src := attrOf(t, doc, "img", "src"); !strings.HasPrefix(src, "data:image/jpeg;base64,") {
			t.Errorf("src = %q, want extension-derived type", src)
		}
	})

	t.Run("no images", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<p>text only</p>`)
		fetcher := &fakeFetcher{}
		in := NewInliner(fetcher)

		stats := in.Inline(context.Background(), doc, mustBase(t))
		if stats != (model.AssetStats{}) {
			t.Errorf("stats = %+v, want zero value", stats)
		}
		if got := fetcher.calls.Load(); got != 0 {
			t.Errorf("fetches = %d, want 0", got)
		}
	})
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		rawURL string
		want   string
	}{
		{name: "header wins", header: "image/png; charset=binary", rawURL: "/a.jpg", want: "image/png"},
		{name: "extension fallback", header: "", rawURL: "https://wiki.example.com/a.gif", want: "image/gif"},
		{name: "generic default", header: "", rawURL: "/attachment", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := contentTypeFor(tt.header, tt.rawURL); got != tt.want {
				t.Errorf("contentTypeFor(%q, %q) = %q, want %q", tt.header, tt.rawURL, got, tt.want)
			}
		})
	}
}
