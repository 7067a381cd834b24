package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdinbox/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Stable   bool          `json:"stable"`
	Warnings []JSONWarning `json:"warnings"`
	Diff     string        `json:"diff,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// JSONWarning represents a construct kept as literal text.
type JSONWarning struct {
	Type      string `json:"type"`
	Construct string `json:"construct,omitempty"`
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int `json:"filesChecked"`
	FilesStable   int `json:"filesStable"`
	FilesUnstable int `json:"filesUnstable"`
	FilesErrored  int `json:"filesErrored"`
	FilesDegraded int `json:"filesDegraded"`
	Warnings      int `json:"warnings"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		name := displayPath(r.opts.WorkingDir, file.Path)
		entry := JSONFileResult{
			Path:     name,
			Stable:   file.Stable,
			Warnings: make([]JSONWarning, 0, len(file.Warnings)),
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		if file.Diff.Changed() {
			diff := *file.Diff
			diff.Name = name
			entry.Diff = diff.Unified()
		}
		for _, w := range file.Warnings {
			entry.Warnings = append(entry.Warnings, JSONWarning{
				Type:      string(w.Type),
				Construct: w.Construct,
				Line:      w.Line,
				Message:   w.Message,
			})
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:  len(result.Files),
		FilesStable:   stats.FilesStable,
		FilesUnstable: stats.FilesUnstable,
		FilesErrored:  stats.FilesErrored,
		FilesDegraded: stats.FilesDegraded,
		Warnings:      stats.Warnings,
	}
	return output
}
