package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). Callers can use errors.Is() for
// programmatic handling while the messages stay human-readable. Plain
// errors.New() suffices because no dynamic values are needed.
var (
	// ErrNoSourceBaseURL is returned when the source wiki base URL is missing.
	ErrNoSourceBaseURL = errors.New("no source base URL: provide --source-url or a config file")

	// ErrNoSourceCredentials is returned when the source user or token is missing.
	ErrNoSourceCredentials = errors.New("incomplete source credentials: both --source-user and --source-token are required")

	// ErrNoTargetBaseURL is returned when publishing is requested without a target URL.
	ErrNoTargetBaseURL = errors.New("no target base URL: provide --target-url or use --dry-run")

	// ErrNoTargetCredentials is returned when publishing is requested without target tokens.
	ErrNoTargetCredentials = errors.New("incomplete target credentials: both --target-token-id and --target-token-secret are required")

	// ErrNoRootPage is returned when no starting page URL or ID is given.
	ErrNoRootPage = errors.New("no root page specified: provide a page URL or numeric ID")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxDepth is returned when the recursion depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidConcurrency is returned when a fan-out bound is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxImageBytes is returned when the per-asset cap is negative.
	ErrInvalidMaxImageBytes = errors.New("invalid max image bytes: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one summary format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
