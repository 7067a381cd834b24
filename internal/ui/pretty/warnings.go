package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/markdown"
)

// FormatWarning formats a parse warning for terminal output:
//
//	path:line  warning  message  (construct)
func (s *Styles) FormatWarning(path string, warning markdown.Warning) string {
	location := s.Path.Render(path)
	if warning.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", warning.Line))
	}

	line := fmt.Sprintf("  %s  %s  %s", location, s.Warning.Render("warning"), warning.Message)
	if warning.Construct != "" {
		line += "  " + s.Dim.Render("("+warning.Construct+")")
	}
	return line + "\n"
}

// FormatWarnings formats every warning of a parse result.
func (s *Styles) FormatWarnings(path string, warnings []markdown.Warning) string {
	var builder strings.Builder
	for _, warning := range warnings {
		builder.WriteString(s.FormatWarning(path, warning))
	}
	return builder.String()
}
