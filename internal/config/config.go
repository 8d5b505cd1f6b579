package config

import "time"

// Default configuration values.
// These mirror the behavior of the source system's export API: requests are
// cheap but rate-limited, and exported pages occasionally embed very large
// attachments, so the image cap defaults generously.
const (
	// DefaultTimeout is the per-request timeout for source and target calls.
	// The export API can take tens of seconds to render large pages, so a
	// short timeout would produce spurious transient failures.
	DefaultTimeout = 60 * time.Second

	// DefaultRetryAttempts is the maximum number of attempts for a request
	// that fails with a transient transport error.
	DefaultRetryAttempts = 4

	// DefaultRetryBackoff is the base delay of the exponential backoff
	// between retry attempts. Attempt n waits base * 2^(n-1).
	DefaultRetryBackoff = 400 * time.Millisecond

	// DefaultMaxDepth limits how far link recursion follows discovered
	// pages. Depth 0 exports only the root page.
	DefaultMaxDepth = 1

	// DefaultImageConcurrency bounds the number of in-flight asset fetches
	// within one document's inlining pass.
	DefaultImageConcurrency = 4

	// DefaultLinkConcurrency bounds the number of in-flight title lookups
	// while humanizing link text.
	DefaultLinkConcurrency = 6

	// DefaultMaxImageBytes is the per-asset size cap. Assets over the cap
	// keep their original reference instead of being inlined.
	DefaultMaxImageBytes = 10 * 1024 * 1024 // 10MB

	// DefaultBookName is the target collection used when none is given.
	DefaultBookName = "Imported"

	// AppName is the application name, used for XDG directory paths.
	AppName = "confport"
)

// Config holds all options for one export run.
//
// Design decision: We use a single flat struct instead of nested sub-structs
// (SourceConfig, TransformConfig, ...) because the option count is manageable
// and flat fields keep flag wiring in cmd/ trivial. Revisit if this grows.
type Config struct {
	// SourceBaseURL is the base URL of the source wiki, e.g.
	// "https://wiki.example.com". Required.
	SourceBaseURL string

	// SourceUser and SourceToken form the Basic credential sent with every
	// source API request. Both are required.
	SourceUser  string
	SourceToken string

	// TargetBaseURL is the base URL of the target system's API.
	// Required unless DryRun is set.
	TargetBaseURL string

	// TargetTokenID and TargetTokenSecret form the token credential sent
	// with target API requests. Required unless DryRun is set.
	TargetTokenID     string
	TargetTokenSecret string

	// RootPage is the starting page, either a full source URL or a bare
	// numeric page ID. Required.
	RootPage string

	// OutputDir is where HTML artifacts are written, one per visited page.
	// Empty disables file output.
	OutputDir string

	// BookName is the target collection the pages are published into.
	// Matched case-insensitively against existing collections; created
	// when absent.
	BookName string

	// Recurse enables following links to other source pages.
	Recurse bool

	// MaxDepth is the maximum recursion depth when Recurse is set.
	// Depth 0 means only the root page.
	MaxDepth int

	// InlineImages enables fetching referenced images and embedding them
	// as data URIs.
	InlineImages bool

	// ImageConcurrency bounds in-flight asset fetches per document.
	ImageConcurrency int

	// MaxImageBytes is the per-asset byte cap. Oversized assets keep their
	// original reference and count as per-asset failures.
	MaxImageBytes int64

	// LinkConcurrency bounds in-flight title lookups per document.
	LinkConcurrency int

	// KeepAllIDs disables ID stripping in the sanitizer. When false, only
	// the wrapper marker and IDs protected by the reference resolver
	// survive.
	KeepAllIDs bool

	// FullDocument wraps the transformed fragment in a complete standalone
	// HTML document before output.
	FullDocument bool

	// DryRun skips publishing to the target system. Artifacts are still
	// written when OutputDir is set.
	DryRun bool

	// Timeout is the per-request timeout for all network calls.
	Timeout time.Duration

	// RetryAttempts and RetryBackoff control transient-failure retries.
	RetryAttempts int
	RetryBackoff  time.Duration

	// Verbose enables slog.LevelDebug output. When false, only warnings
	// and errors are logged.
	Verbose bool

	// JSONReport and MarkdownReport select the crawl summary format.
	// Mutually exclusive; the default is a human-readable text summary.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the summary to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit configuration file path. If empty, the
	// loader searches the working directory, the XDG config directory, and
	// the home directory.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero (timeout, retry counts, caps), and the
// constructor documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		BookName:         DefaultBookName,
		MaxDepth:         DefaultMaxDepth,
		InlineImages:     true,
		ImageConcurrency: DefaultImageConcurrency,
		MaxImageBytes:    DefaultMaxImageBytes,
		LinkConcurrency:  DefaultLinkConcurrency,
		Timeout:          DefaultTimeout,
		RetryAttempts:    DefaultRetryAttempts,
		RetryBackoff:     DefaultRetryBackoff,
	}
}

// Validate checks the configuration for errors that must abort the run
// before any network activity.
func (c *Config) Validate() error {
	if c.SourceBaseURL == "" {
		return ErrNoSourceBaseURL
	}
	if c.SourceUser == "" || c.SourceToken == "" {
		return ErrNoSourceCredentials
	}
	if c.RootPage == "" {
		return ErrNoRootPage
	}
	if !c.DryRun {
		if c.TargetBaseURL == "" {
			return ErrNoTargetBaseURL
		}
		if c.TargetTokenID == "" || c.TargetTokenSecret == "" {
			return ErrNoTargetCredentials
		}
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.ImageConcurrency <= 0 || c.LinkConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxImageBytes < 0 {
		return ErrInvalidMaxImageBytes
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
