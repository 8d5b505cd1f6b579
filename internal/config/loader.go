package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name searched for in
// the working directory and the user's home directory.
const DefaultConfigFile = ".confport.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. It carries only credentials and
// base URLs; behavioral options stay on CLI flags so that a shared config
// file never silently changes what an invocation does.
type File struct {
	// Source holds the source wiki connection settings.
	Source struct {
		BaseURL string `yaml:"base_url"`
		User    string `yaml:"user"`
		Token   string `yaml:"token"`
	} `yaml:"source"`

	// Target holds the target system connection settings.
	Target struct {
		BaseURL     string `yaml:"base_url"`
		TokenID     string `yaml:"token_id"`
		TokenSecret string `yaml:"token_secret"`
	} `yaml:"target"`
}

// LoadFile loads connection settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that is fatal based on whether the path was explicitly given.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Merge copies file values into the config for every connection field the
// config does not already set. Flags always win over the file.
func (c *Config) Merge(f *File) {
	if f == nil {
		return
	}
	if c.SourceBaseURL == "" {
		c.SourceBaseURL = f.Source.BaseURL
	}
	if c.SourceUser == "" {
		c.SourceUser = f.Source.User
	}
	if c.SourceToken == "" {
		c.SourceToken = f.Source.Token
	}
	if c.TargetBaseURL == "" {
		c.TargetBaseURL = f.Target.BaseURL
	}
	if c.TargetTokenID == "" {
		c.TargetTokenID = f.Target.TokenID
	}
	if c.TargetTokenSecret == "" {
		c.TargetTokenSecret = f.Target.TokenSecret
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. The explicit path, when given
//  2. DefaultConfigFile in the current directory
//  3. config.yaml in the XDG config directory for this application
//  4. DefaultConfigFile in the user's home directory
//
// Returns the path of the first file found, or empty string if none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	xdgConfig := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
