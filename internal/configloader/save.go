package configloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/fsutil"
)

// configHeader starts every saved config file.
const configHeader = `# mdinbox configuration
# Values can be overridden with MDINBOX_* environment variables.`

// ErrNoConfigPath is returned when no user config location can be determined.
var ErrNoConfigPath = errors.New("cannot determine user config path")

// LoadFile reads a single config file without defaults or overrides.
// A missing file yields an empty config.
func LoadFile(ctx context.Context, path string) (*config.Config, error) {
	content, ok, err := fsutil.ReadIfExists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if !ok {
		return &config.Config{}, nil
	}
	return config.FromYAML(content)
}

// Save writes cfg to path atomically. The file holds a secret and is
// created private to the user. An empty path means the user config path.
func Save(ctx context.Context, cfg *config.Config, path string) (string, error) {
	if path == "" {
		path = UserConfigPath()
	}
	if path == "" {
		return "", ErrNoConfigPath
	}

	content, err := cfg.ToYAMLWithHeader(configHeader)
	if err != nil {
		return "", err
	}

	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.PrivateFileMode); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return path, nil
}
