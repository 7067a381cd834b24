// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultTermWidth is used when the writer is not a terminal.
const defaultTermWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Status styles
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Document components
	Name        lipgloss.Style
	Title       lipgloss.Style
	Preview     lipgloss.Style
	Placeholder lipgloss.Style
	Token       lipgloss.Style
	Path        lipgloss.Style
	Location    lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableLegend    lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		Name:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Title:       lipgloss.NewStyle().Bold(true),
		Preview:     lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Token:       lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Path:        lipgloss.NewStyle().Bold(true),
		Location:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableLegend:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Success:        plain,
		Failure:        plain,
		Warning:        plain,
		Info:           plain,
		Name:           plain,
		Title:          plain,
		Preview:        plain,
		Placeholder:    plain,
		Token:          plain,
		Path:           plain,
		Location:       plain,
		TableHeader:    plain,
		TableSeparator: plain,
		TableLegend:    plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of the terminal behind writer, or a
// default of 100 columns.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
