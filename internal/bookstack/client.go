package bookstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/confport/confport/internal/config"
)

// listPageSize is how many books one listing request asks for.
const listPageSize = 100

// maxErrorExcerpt is how many bytes of an error response body are surfaced.
const maxErrorExcerpt = 256

// Client talks to the target system's JSON API.
type Client struct {
	// base is the target base URL.
	base *url.URL

	// httpClient performs all requests.
	httpClient *http.Client

	// authHeader is the precomputed token credential header value.
	authHeader string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the target system at baseURL,
// authenticating with the token ID/secret pair.
func NewClient(baseURL, tokenID, tokenSecret string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid target base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid target base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		authHeader: "Token " + tokenID + ":" + tokenSecret,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// book is one entry of the books listing.
type book struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// bookList is the paginated books listing response.
type bookList struct {
	Data  []book `json:"data"`
	Total int    `json:"total"`
}

// Page is a created target page.
type Page struct {
	// ID is the page ID assigned by the target system.
	ID int `json:"id"`

	// Name is the page name as stored.
	Name string `json:"name"`

	// Slug is the page's URL slug.
	Slug string `json:"slug"`

	// BookSlug is the slug of the book the page landed in.
	BookSlug string `json:"book_slug"`
}

// CreatePageParams are the inputs for creating a page. Exactly one of
// BookID or ChapterID must be set.
type CreatePageParams struct {
	Name      string `json:"name"`
	HTML      string `json:"html"`
	BookID    int    `json:"book_id,omitempty"`
	ChapterID int    `json:"chapter_id,omitempty"`
}

// FindOrCreateBook returns the ID of the book with the given name, matching
// case-insensitively against the paginated listing, creating the book when
// no match exists.
func (c *Client) FindOrCreateBook(ctx context.Context, name string) (int, error) {
	for offset := 0; ; offset += listPageSize {
		u := *c.base
		u.Path = strings.TrimRight(u.Path, "/") + "/api/books"
		u.RawQuery = url.Values{
			"count":  {fmt.Sprint(listPageSize)},
			"offset": {fmt.Sprint(offset)},
		}.Encode()

		var list bookList
		if err := c.do(ctx, http.MethodGet, u.String(), nil, &list); err != nil {
			return 0, fmt.Errorf("list books: %w", err)
		}

		for _, b := range list.Data {
			if strings.EqualFold(b.Name, name) {
				c.logger.Debug("found existing book", "name", b.Name, "id", b.ID)
				return b.ID, nil
			}
		}

		if offset+len(list.Data) >= list.Total || len(list.Data) == 0 {
			break
		}
	}

	var created book
	payload := map[string]string{"name": name}
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/books"
	if err := c.do(ctx, http.MethodPost, u.String(), payload, &created); err != nil {
		return 0, fmt.Errorf("create book %q: %w", name, err)
	}
	c.logger.Info("created book", "name", name, "id", created.ID)
	return created.ID, nil
}

// CreatePage creates a page in the target system.
func (c *Client) CreatePage(ctx context.Context, params CreatePageParams) (*Page, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/pages"

	var page Page
	if err := c.do(ctx, http.MethodPost, u.String(), params, &page); err != nil {
		return nil, fmt.Errorf("create page %q: %w", params.Name, err)
	}
	return &page, nil
}

// do performs one authenticated JSON request and decodes the response into
// out. Non-2xx responses surface as errors carrying a body excerpt.
func (c *Client) do(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		return fmt.Errorf("unexpected status %d from %s: %s",
			resp.StatusCode, rawURL, strings.TrimSpace(string(excerpt)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", rawURL, err)
		}
	}
	return nil
}
