package configloader

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yaklabco/mdinbox/pkg/config"
)

// envVarPrefix is the prefix for all mdinbox environment variables.
const envVarPrefix = "MDINBOX_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
	envTypeDuration
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"TOKEN":             {field: "token", typ: envTypeString, description: "API token"},
	"REPOSITORY":        {field: "repository", typ: envTypeString, description: "Target repository (owner/name)"},
	"FOLDER":            {field: "folder", typ: envTypeString, description: "Remote folder (default /inbox)"},
	"API_URL":           {field: "api_url", typ: envTypeString, description: "Content API root URL"},
	"DRAFT_PATH":        {field: "draft_path", typ: envTypeString, description: "Local draft file"},
	"LOG_LEVEL":         {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn, or error"},
	"AUTOSAVE_INTERVAL": {field: "autosave_interval", typ: envTypeDuration, description: "Draft autosave interval (e.g. 1s)"},
	"TIMEOUT":           {field: "timeout", typ: envTypeDuration, description: "Remote request timeout (e.g. 60s)"},
	"PREVIEW_LENGTH":    {field: "preview_length", typ: envTypeInt, description: "Characters kept in listing previews"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDINBOX_ (e.g., MDINBOX_TOKEN).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q (expected e.g. 500ms, 2s)", envVar, value)
		}
		return setDurationField(cfg, mapping.field, d)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// SetField sets a string, integer or duration field by its YAML name.
// It backs `mdinbox config set`.
func SetField(cfg *config.Config, field, value string) error {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return applyEnvValue(cfg, mapping, value, field+" ("+envVarPrefix+suffix+")")
		}
	}
	return fmt.Errorf("unknown config key: %s", field)
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "token":
		cfg.Token = value
	case "repository":
		cfg.Repository = value
	case "folder":
		cfg.Folder = value
	case "api_url":
		cfg.APIURL = value
	case "draft_path":
		cfg.DraftPath = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "preview_length":
		cfg.PreviewLength = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setDurationField sets a duration field on the config by field path.
func setDurationField(cfg *config.Config, field string, value time.Duration) error {
	switch field {
	case "autosave_interval":
		cfg.AutosaveInterval = value
	case "timeout":
		cfg.Timeout = value
	default:
		return fmt.Errorf("unknown duration field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
