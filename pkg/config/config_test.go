package config_test

import (
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdinbox/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, "/inbox", cfg.Folder)
	assert.Equal(t, "https://api.github.com", cfg.APIURL)
	assert.Equal(t, time.Second, cfg.AutosaveInterval)
	assert.Equal(t, 100, cfg.PreviewLength)
	assert.False(t, cfg.RemoteConfigured())
	require.NoError(t, cfg.Validate())
}

func TestRemoteConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		repo  string
		want  bool
	}{
		{"both", "t", "o/r", true},
		{"no token", "", "o/r", false},
		{"no repository", "t", "", false},
		{"blank token", "  ", "o/r", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Token = tt.token
			cfg.Repository = tt.repo
			assert.Equal(t, tt.want, cfg.RemoteConfigured())
		})
	}

	var nilCfg *config.Config
	assert.False(t, nilCfg.RemoteConfigured())
}

func TestNormalizedFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		folder string
		want   string
	}{
		{"/inbox", "inbox"},
		{"inbox", "inbox"},
		{"//inbox", "/inbox"},
		{"", ""},
		{"/notes/daily", "notes/daily"},
	}

	for _, tt := range tests {
		cfg := config.NewConfig()
		cfg.Folder = tt.folder
		assert.Equal(t, tt.want, cfg.NormalizedFolder(), "folder %q", tt.folder)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"bad repository", func(c *config.Config) { c.Repository = "just-a-name" }, "repository"},
		{"relative folder", func(c *config.Config) { c.Folder = "/inbox/../etc" }, "folder"},
		{"missing api url", func(c *config.Config) { c.APIURL = "" }, "api_url"},
		{"relative api url", func(c *config.Config) { c.APIURL = "api.github.com" }, "api_url"},
		{"fast autosave", func(c *config.Config) { c.AutosaveInterval = time.Millisecond }, "autosave_interval"},
		{"zero preview", func(c *config.Config) { c.PreviewLength = 0 }, "preview_length"},
		{"short timeout", func(c *config.Config) { c.Timeout = time.Millisecond }, "timeout"},
		{"unknown level", func(c *config.Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, goerrors.IsValidation(err))

			fields, ok := goerrors.GetValidationErrors(err)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	assert.Empty(t, config.MaskToken(""))
	assert.Equal(t, "***", config.MaskToken("abc"))
	assert.Equal(t, "********wxyz", config.MaskToken("ghp_abcdwxyz"))
}
