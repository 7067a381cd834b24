// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and atomic saving of the user config.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/fsutil"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDINBOX_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdinbox.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/mdinbox/config.yaml)
//  6. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result.Paths = paths

	// Load and merge in order (lowest to highest precedence)

	if !opts.IgnoreUserConfig && paths.User != "" {
		userCfg, err := loadConfigFile(ctx, paths.User)
		if err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
		cfg = merge(cfg, userCfg)
		result.LoadedFrom = append(result.LoadedFrom, paths.User)
		result.Warnings = append(result.Warnings, checkSecretPermissions(paths.User, userCfg)...)
	}

	if !opts.IgnoreProjectConfig && paths.Project != "" {
		projectCfg, err := loadConfigFile(ctx, paths.Project)
		if err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		if projectCfg.Token != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s contains a token; keep tokens in the user config or %s", paths.Project, envVarPrefix+"TOKEN"))
		}
		cfg = merge(cfg, projectCfg)
		result.LoadedFrom = append(result.LoadedFrom, paths.Project)
	}

	if opts.ExplicitPath != "" {
		explicitCfg, err := loadConfigFile(ctx, opts.ExplicitPath)
		if err != nil {
			return nil, fmt.Errorf("load explicit config: %w", err)
		}
		cfg = merge(cfg, explicitCfg)
		result.LoadedFrom = append(result.LoadedFrom, opts.ExplicitPath)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	if cfg.DraftPath == "" {
		cfg.DraftPath = DefaultDraftPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, ok, err := fsutil.ReadIfExists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("read file: %s: %w", path, os.ErrNotExist)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// checkSecretPermissions warns when a file holding a token is readable by
// other users.
func checkSecretPermissions(path string, cfg *config.Config) []string {
	if cfg.Token == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm()&0o077 == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s holds a token but has mode %04o; run chmod 600", path, info.Mode().Perm())}
}
