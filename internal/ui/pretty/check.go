package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/runner"
)

// FormatCheckSummary summarizes a batch round-trip check:
//
//	12 files checked: 11 stable, 1 unstable (2 warnings in 1 file)
func (s *Styles) FormatCheckSummary(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No markdown files found") + "\n"
	}

	parts := []string{s.Success.Render(fmt.Sprintf("%d stable", stats.FilesStable))}
	if stats.FilesUnstable > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unstable", stats.FilesUnstable)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	line := fmt.Sprintf("%s checked: %s",
		s.Bold.Render(plural(stats.FilesDiscovered, "file")), strings.Join(parts, ", "))
	if stats.Warnings > 0 {
		line += s.Dim.Render(fmt.Sprintf(" (%s in %s)",
			plural(stats.Warnings, "warning"), plural(stats.FilesDegraded, "file")))
	}
	return line + "\n"
}

// FormatCheckError reports a file that could not be checked.
func (s *Styles) FormatCheckError(path string, err error) string {
	return s.Failure.Render("error") + "  " + s.Path.Render(path) + "  " + err.Error() + "\n"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
