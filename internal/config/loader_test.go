package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleFile = `source:
  base_url: https://wiki.example.com
  user: exporter@example.com
  token: source-token
target:
  base_url: https://bookstack.example.com
  token_id: tid
  token_secret: tsecret
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".confport.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all connection fields", func(t *testing.T) {
		t.Parallel()

		f, err := LoadFile(writeTempConfig(t, sampleFile))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if f.Source.BaseURL != "https://wiki.example.com" {
			t.Errorf("Source.BaseURL = %q", f.Source.BaseURL)
		}
		if f.Source.User != "exporter@example.com" {
			t.Errorf("Source.User = %q", f.Source.User)
		}
		if f.Source.Token != "source-token" {
			t.Errorf("Source.Token = %q", f.Source.Token)
		}
		if f.Target.BaseURL != "https://bookstack.example.com" {
			t.Errorf("Target.BaseURL = %q", f.Target.BaseURL)
		}
		if f.Target.TokenID != "tid" || f.Target.TokenSecret != "tsecret" {
			t.Errorf("Target tokens = %q/%q", f.Target.TokenID, f.Target.TokenSecret)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadFile() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(writeTempConfig(t, "source: [not: closed"))
		if err == nil {
			t.Error("LoadFile() error = nil, want parse error")
		}
	})
}

func TestConfigMerge(t *testing.T) {
	t.Parallel()

	t.Run("fills only empty fields", func(t *testing.T) {
		t.Parallel()

		f, err := LoadFile(writeTempConfig(t, sampleFile))
		if err != nil {
			t.Fatal(err)
		}

		cfg := NewConfig()
		cfg.SourceUser = "flag-user" // flag wins
		cfg.Merge(f)

		if cfg.SourceUser != "flag-user" {
			t.Errorf("SourceUser = %q, want flag value preserved", cfg.SourceUser)
		}
		if cfg.SourceBaseURL != "https://wiki.example.com" {
			t.Errorf("SourceBaseURL = %q, want file value", cfg.SourceBaseURL)
		}
		if cfg.TargetTokenSecret != "tsecret" {
			t.Errorf("TargetTokenSecret = %q, want file value", cfg.TargetTokenSecret)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.SourceBaseURL = "https://kept.example.com"
		cfg.Merge(nil)
		if cfg.SourceBaseURL != "https://kept.example.com" {
			t.Errorf("SourceBaseURL = %q", cfg.SourceBaseURL)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, sampleFile)
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile(%q) = %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "absent.yaml")
		if got := FindConfigFile(missing); got != "" {
			t.Errorf("FindConfigFile(%q) = %q, want empty", missing, got)
		}
	})
}
