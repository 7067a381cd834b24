package config

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeInvalidConfig marks configuration validation errors.
const TextCodeInvalidConfig = "INVALID_CONFIG"

// Bounds.
const (
	MinAutosaveInterval = 100 * time.Millisecond
	MinTimeout          = time.Second
)

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	logLevels         = []any{"debug", "info", "warn", "warning", "error"}
)

// Validate checks the configuration. The returned error is a go-errors
// validation error carrying one field error per problem.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Repository, validation.Match(repositoryPattern).
			Error("must look like owner/name")),
		validation.Field(&c.Folder, validation.By(checkFolder)),
		validation.Field(&c.APIURL, validation.Required, validation.By(checkURL)),
		validation.Field(&c.AutosaveInterval, validation.Min(MinAutosaveInterval)),
		validation.Field(&c.PreviewLength, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Min(MinTimeout)),
		validation.Field(&c.LogLevel, validation.In(logLevels...)),
	)
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, "invalid configuration").
		WithTextCode(TextCodeInvalidConfig)
}

func checkFolder(value any) error {
	folder, _ := value.(string)
	for _, seg := range strings.Split(folder, "/") {
		if seg == ".." || seg == "." {
			return errors.New("must not contain relative segments")
		}
	}
	return nil
}

func checkURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}
