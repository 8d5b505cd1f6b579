package config

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.RetryAttempts != DefaultRetryAttempts {
		t.Errorf("RetryAttempts = %d, want %d", cfg.RetryAttempts, DefaultRetryAttempts)
	}
	if cfg.RetryBackoff != DefaultRetryBackoff {
		t.Errorf("RetryBackoff = %v, want %v", cfg.RetryBackoff, DefaultRetryBackoff)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if !cfg.InlineImages {
		t.Error("InlineImages = false, want true")
	}
	if cfg.ImageConcurrency != DefaultImageConcurrency {
		t.Errorf("ImageConcurrency = %d, want %d", cfg.ImageConcurrency, DefaultImageConcurrency)
	}
	if cfg.LinkConcurrency != DefaultLinkConcurrency {
		t.Errorf("LinkConcurrency = %d, want %d", cfg.LinkConcurrency, DefaultLinkConcurrency)
	}
	if cfg.MaxImageBytes != DefaultMaxImageBytes {
		t.Errorf("MaxImageBytes = %d, want %d", cfg.MaxImageBytes, DefaultMaxImageBytes)
	}
	if cfg.BookName != DefaultBookName {
		t.Errorf("BookName = %q, want %q", cfg.BookName, DefaultBookName)
	}
}

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.SourceBaseURL = "https://wiki.example.com"
	cfg.SourceUser = "exporter@example.com"
	cfg.SourceToken = "source-token"
	cfg.TargetBaseURL = "https://bookstack.example.com"
	cfg.TargetTokenID = "id"
	cfg.TargetTokenSecret = "secret"
	cfg.RootPage = "12345"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing source base URL",
			mutate:  func(c *Config) { c.SourceBaseURL = "" },
			wantErr: ErrNoSourceBaseURL,
		},
		{
			name:    "missing source user",
			mutate:  func(c *Config) { c.SourceUser = "" },
			wantErr: ErrNoSourceCredentials,
		},
		{
			name:    "missing source token",
			mutate:  func(c *Config) { c.SourceToken = "" },
			wantErr: ErrNoSourceCredentials,
		},
		{
			name:    "missing root page",
			mutate:  func(c *Config) { c.RootPage = "" },
			wantErr: ErrNoRootPage,
		},
		{
			name:    "missing target base URL",
			mutate:  func(c *Config) { c.TargetBaseURL = "" },
			wantErr: ErrNoTargetBaseURL,
		},
		{
			name:    "missing target token secret",
			mutate:  func(c *Config) { c.TargetTokenSecret = "" },
			wantErr: ErrNoTargetCredentials,
		},
		{
			name: "dry run needs no target",
			mutate: func(c *Config) {
				c.DryRun = true
				c.TargetBaseURL = ""
				c.TargetTokenID = ""
				c.TargetTokenSecret = ""
			},
			wantErr: nil,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.MaxDepth = -1 },
			wantErr: ErrInvalidMaxDepth,
		},
		{
			name:    "zero image concurrency",
			mutate:  func(c *Config) { c.ImageConcurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "zero link concurrency",
			mutate:  func(c *Config) { c.LinkConcurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative image cap",
			mutate:  func(c *Config) { c.MaxImageBytes = -1 },
			wantErr: ErrInvalidMaxImageBytes,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDepthZero(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxDepth = 0
	cfg.Timeout = time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with depth 0 = %v, want nil", err)
	}
}
