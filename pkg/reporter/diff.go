package reporter

import (
	"bufio"
	"context"

	"github.com/yaklabco/mdinbox/pkg/runner"
)

// DiffReporter writes plain unified diffs for unstable files only, suitable
// for piping to other tools.
type DiffReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return nil
	}

	for _, file := range result.Files {
		if file.Error != nil || file.Stable || !file.Diff.Changed() {
			continue
		}
		diff := *file.Diff
		diff.Name = displayPath(r.opts.WorkingDir, file.Path)
		if _, err := r.bw.WriteString(diff.Unified()); err != nil {
			return err
		}
	}
	return nil
}
