package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer receives the report (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives warnings, diffs and unreadable files in text
	// format (typically os.Stderr).
	ErrorWriter io.Writer

	Format Format

	// Color controls colorized output: "auto", "always" or "never".
	Color string

	// Quiet limits text output to unstable and unreadable files, and the
	// summary to runs with failures.
	Quiet bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir makes paths below it relative. Empty keeps paths as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
	}
}
