package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/runner"
)

// TextReporter writes one line per file to Writer, and warnings, diffs and
// errors to ErrorWriter.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	ew     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		ew:     bufio.NewWriterSize(opts.ErrorWriter, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
		if flushErr := r.ew.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	for _, file := range result.Files {
		name := displayPath(r.opts.WorkingDir, file.Path)

		switch {
		case file.Error != nil:
			fmt.Fprint(r.ew, r.styles.FormatCheckError(name, file.Error))
			continue
		case !file.Stable:
			fmt.Fprint(r.bw, r.styles.FormatRoundTrip(name, false))
			if file.Diff.Changed() {
				diff := *file.Diff
				diff.Name = name
				fmt.Fprint(r.ew, r.styles.FormatDiff(&diff))
			}
		case !r.opts.Quiet:
			fmt.Fprint(r.bw, r.styles.FormatRoundTrip(name, true))
		}

		if !r.opts.Quiet {
			fmt.Fprint(r.ew, r.styles.FormatWarnings(name, file.Warnings))
		}
	}

	if !r.opts.Quiet || result.HasFailures() {
		fmt.Fprint(r.bw, r.styles.FormatCheckSummary(result.Stats))
	}
	return nil
}
