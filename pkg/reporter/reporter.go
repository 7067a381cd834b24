// Package reporter writes the results of a batch round-trip check.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/mdinbox/pkg/runner"
)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	Report(ctx context.Context, result *runner.Result) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = defaults.ErrorWriter
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workDir when it lies below it.
func displayPath(workDir, path string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return filepath.ToSlash(rel)
}
