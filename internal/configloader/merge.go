package configloader

import "github.com/yaklabco/mdinbox/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// Scalar values in override replace base when they are non-zero; unset
// values in override do not override values in base.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Token != "" {
		result.Token = override.Token
	}
	if override.Repository != "" {
		result.Repository = override.Repository
	}
	if override.Folder != "" {
		result.Folder = override.Folder
	}
	if override.APIURL != "" {
		result.APIURL = override.APIURL
	}
	if override.DraftPath != "" {
		result.DraftPath = override.DraftPath
	}
	if override.AutosaveInterval != 0 {
		result.AutosaveInterval = override.AutosaveInterval
	}
	if override.PreviewLength != 0 {
		result.PreviewLength = override.PreviewLength
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}

	// Debug can only be switched on by an override.
	if override.Debug {
		result.Debug = true
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
