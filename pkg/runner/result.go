package runner

import (
	"github.com/yaklabco/mdinbox/pkg/markdown"
	"github.com/yaklabco/mdinbox/pkg/textdiff"
)

// FileOutcome is the check result for one file.
type FileOutcome struct {
	Path string

	// Stable reports whether the file survived the round trip.
	Stable bool

	// Warnings are the constructs that were kept as literal text on parse.
	Warnings []markdown.Warning

	// Diff compares the first and second serialization. Nil when the file
	// could not be read.
	Diff *textdiff.Result

	// Error is set when the file could not be read.
	Error error
}

// Stats counts outcomes across a run.
type Stats struct {
	FilesDiscovered int
	FilesStable     int
	FilesUnstable   int
	FilesErrored    int
	FilesDegraded   int
	Warnings        int
}

// Result is the outcome of a run. Files are sorted by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file was unstable or unreadable.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesUnstable > 0 || r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Stable:
		r.Stats.FilesStable++
	default:
		r.Stats.FilesUnstable++
	}

	if len(outcome.Warnings) > 0 {
		r.Stats.FilesDegraded++
		r.Stats.Warnings += len(outcome.Warnings)
	}
}
