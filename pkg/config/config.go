// Package config defines the configuration of mdinbox: the remote target
// (token, repository, folder) and engine settings.
// These types are pure data structures; loading lives in internal/configloader.
package config

import (
	"strings"
	"time"
)

// Defaults.
const (
	DefaultFolder           = "/inbox"
	DefaultAPIURL           = "https://api.github.com"
	DefaultAutosaveInterval = time.Second
	DefaultPreviewLength    = 100
	DefaultTimeout          = 60 * time.Second
	DefaultLogLevel         = "info"
)

// Config is the root configuration structure.
type Config struct {
	// Token is the API token. It is a secret.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// Repository is the target repository ("owner/name").
	Repository string `yaml:"repository,omitempty" json:"repository,omitempty"`

	// Folder is the folder documents are saved to and listed from.
	Folder string `yaml:"folder" json:"folder"`

	// APIURL is the root of the content API.
	APIURL string `yaml:"api_url" json:"api_url"`

	// DraftPath is the file holding the local draft. Empty means the
	// default state location.
	DraftPath string `yaml:"draft_path,omitempty" json:"draft_path,omitempty"`

	// AutosaveInterval is the draft autosave cadence.
	AutosaveInterval time.Duration `yaml:"autosave_interval" json:"autosave_interval"`

	// PreviewLength is the number of characters kept in listing previews.
	PreviewLength int `yaml:"preview_length" json:"preview_length"`

	// Timeout bounds every remote request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// LogLevel is the default log level.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CLI-level options (not persisted to config files).

	// Debug forces debug logging.
	Debug bool `yaml:"-" json:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Folder:           DefaultFolder,
		APIURL:           DefaultAPIURL,
		AutosaveInterval: DefaultAutosaveInterval,
		PreviewLength:    DefaultPreviewLength,
		Timeout:          DefaultTimeout,
		LogLevel:         DefaultLogLevel,
	}
}

// RemoteConfigured reports whether both a token and a repository are set.
// Every remote operation requires them.
func (c *Config) RemoteConfigured() bool {
	return c != nil && strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.Repository) != ""
}

// NormalizedFolder returns the folder with a single leading '/' removed.
// An empty folder means the repository root.
func (c *Config) NormalizedFolder() string {
	if c == nil {
		return NormalizeFolder(DefaultFolder)
	}
	return NormalizeFolder(c.Folder)
}

// NormalizeFolder removes a single leading '/' from folder.
func NormalizeFolder(folder string) string {
	return strings.TrimPrefix(folder, "/")
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	const visible = 4
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-visible) + token[len(token)-visible:]
}
