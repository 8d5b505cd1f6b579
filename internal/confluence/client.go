package confluence

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/confport/confport/internal/config"
	"github.com/confport/confport/internal/model"
)

// contentPath is the API path for fetching a page by ID.
const contentPath = "/rest/api/content/"

// Client talks to the source wiki's JSON API.
// It is safe for concurrent use; the memo maps are guarded by a mutex and
// in-flight requests for the same ID are coalesced.
type Client struct {
	// base is the wiki base URL. All API paths and relative asset URLs
	// resolve against it, and it defines the origin for credential scoping.
	base *url.URL

	// httpClient performs all requests. Its timeout covers connect,
	// headers, and body for a single attempt.
	httpClient *http.Client

	// authHeader is the precomputed Basic credential header value.
	authHeader string

	// retryAttempts caps how many times a transiently failing request is
	// tried in total.
	retryAttempts int

	// retryBackoff is the base delay of the exponential backoff.
	retryBackoff time.Duration

	// logger for structured logging.
	logger *slog.Logger

	// mu guards the memo maps. Writes are idempotent: a page fetched twice
	// stores the same value, so concurrent writers never conflict
	// destructively.
	mu     sync.Mutex
	pages  map[string]*model.Document
	titles map[string]string

	// group coalesces concurrent fetches for the same key into one call.
	group singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
// Useful for tests and for callers that need custom transports.
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

// WithRetryAttempts sets the total attempt cap for transient failures.
func WithRetryAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retryAttempts = n
		}
	}
}

// WithRetryBackoff sets the base delay of the exponential backoff.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryBackoff = d
		}
	}
}

// NewClient creates a client for the wiki at baseURL, authenticating every
// API request with a Basic credential built from user and token.
//
// Design decision: The constructor does not touch the network. Validation of
// credentials happens on the first request, which keeps construction cheap
// and tests simple.
func NewClient(baseURL, user, token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid source base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid source base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:          base,
		httpClient:    &http.Client{Timeout: config.DefaultTimeout},
		authHeader:    "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+token)),
		retryAttempts: config.DefaultRetryAttempts,
		retryBackoff:  config.DefaultRetryBackoff,
		pages:         make(map[string]*model.Document),
		titles:        make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Base returns a copy of the wiki base URL.
func (c *Client) Base() *url.URL {
	u := *c.base
	return &u
}

// contentResponse mirrors the fields of the content API we consume.
type contentResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		ExportView struct {
			Value string `json:"value"`
		} `json:"export_view"`
	} `json:"body"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
}

// Page fetches a document by ID, including its exported HTML body.
// Results are memoized for the lifetime of the client and concurrent calls
// for the same ID share one underlying request.
func (c *Client) Page(ctx context.Context, id string) (*model.Document, error) {
	c.mu.Lock()
	if doc, ok := c.pages[id]; ok {
		c.mu.Unlock()
		return doc, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("page:"+id, func() (any, error) {
		return c.fetchPage(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	doc := v.(*model.Document)
	c.mu.Lock()
	c.pages[id] = doc
	c.titles[id] = doc.Title
	c.mu.Unlock()
	return doc, nil
}

// Title fetches just the title of a document by ID.
// Like Page, results are memoized and in-flight lookups are coalesced.
func (c *Client) Title(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	if title, ok := c.titles[id]; ok {
		c.mu.Unlock()
		return title, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("title:"+id, func() (any, error) {
		return c.fetchTitle(ctx, id)
	})
	if err != nil {
		return "", err
	}

	title := v.(string)
	c.mu.Lock()
	c.titles[id] = title
	c.mu.Unlock()
	return title, nil
}

// fetchPage performs the full-content API request.
func (c *Client) fetchPage(ctx context.Context, id string) (*model.Document, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + contentPath + id
	u.RawQuery = url.Values{"expand": {"body.export_view,space"}}.Encode()

	resp, err := c.do(ctx, u.String(), true)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", id, err)
	}
	defer resp.Body.Close()

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", id, err)
	}

	return &model.Document{
		ID:       cr.ID,
		Title:    cr.Title,
		Body:     cr.Body.ExportView.Value,
		SpaceKey: cr.Space.Key,
	}, nil
}

// fetchTitle performs the title-only API request.
func (c *Client) fetchTitle(ctx context.Context, id string) (string, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + contentPath + id

	resp, err := c.do(ctx, u.String(), true)
	if err != nil {
		return "", fmt.Errorf("fetch title %s: %w", id, err)
	}
	defer resp.Body.Close()

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode title %s: %w", id, err)
	}
	return cr.Title, nil
}

// Binary fetches a binary asset, enforcing the per-asset byte cap.
// The credential header is attached only when the asset's origin equals the
// wiki base origin; cross-origin assets are fetched anonymously.
func (c *Client) Binary(ctx context.Context, rawURL string, maxBytes int64) (contentType string, data []byte, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid asset URL %q: %w", rawURL, err)
	}

	resp, err := c.do(ctx, rawURL, sameOrigin(u, c.base))
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return "", nil, fmt.Errorf("%s is %d bytes: %w", rawURL, resp.ContentLength, ErrAssetTooLarge)
	}

	reader := io.Reader(resp.Body)
	if maxBytes > 0 {
		// Read one byte past the cap so undeclared oversize is detected.
		reader = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err = io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("read asset %s: %w", rawURL, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", nil, fmt.Errorf("%s: %w", rawURL, ErrAssetTooLarge)
	}

	return resp.Header.Get("Content-Type"), data, nil
}

// do performs a GET with retry on transient transport failures.
// The response is guaranteed to have a 2xx status; anything else is
// converted to a *StatusError and returned without retrying.
func (c *Client) do(ctx context.Context, rawURL string, withAuth bool) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, */*")
		if withAuth {
			req.Header.Set("Authorization", c.authHeader)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyExcerpt))
			resp.Body.Close()
			return nil, &StatusError{
				StatusCode: resp.StatusCode,
				URL:        rawURL,
				Body:       strings.TrimSpace(string(excerpt)),
			}
		}

		lastErr = err
		if ctx.Err() != nil || !isTransient(err) || attempt == c.retryAttempts {
			break
		}

		wait := c.retryBackoff << (attempt - 1)
		c.logger.Debug("transient fetch failure, retrying",
			"url", rawURL,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// isTransient reports whether a transport error is worth retrying.
// Timeouts, DNS failures, resets, and refused connections qualify;
// everything else (including TLS and protocol errors) does not.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}

// sameOrigin reports whether two URLs share scheme and host (including port).
func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
