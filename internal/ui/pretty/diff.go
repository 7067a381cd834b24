package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/textdiff"
)

// FormatDiff renders a unified diff with removed lines in the failure style
// and added lines in the success style.
func (s *Styles) FormatDiff(diff *textdiff.Result) string {
	if !diff.Changed() {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(diff.Unified(), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			b.WriteString(s.Bold.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(s.Info.UnsetBold().Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(s.Failure.UnsetBold().Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(s.Success.UnsetBold().Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s\n", s.Dim.Render(fmt.Sprintf("%d added, %d removed", diff.Added, diff.Removed)))
	return b.String()
}
