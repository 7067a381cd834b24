package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdinbox/pkg/index"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 2 // NAME, PREVIEW
	minNameWidth     = 8
	minPreviewWidth  = 30
	heavySeparator   = "="
	ellipsis         = "..."
)

// TableFormatter renders document listings as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	name    int
	preview int
}

// FormatDocuments formats entries as a NAME / PREVIEW table. Titles are
// shown in front of the preview. It returns "" for no entries.
func (t *TableFormatter) FormatDocuments(entries []index.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(entries)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	for _, entry := range entries {
		builder.WriteString(t.formatRow(entry, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths fits the preview column into the terminal.
func (t *TableFormatter) calculateColumnWidths(entries []index.Entry) columnWidths {
	widths := columnWidths{name: minNameWidth, preview: minPreviewWidth}

	for _, entry := range entries {
		widths.name = max(widths.name, runewidth.StringWidth(displayName(entry)))
		widths.preview = max(widths.preview, runewidth.StringWidth(previewText(entry)))
	}

	if total := t.totalWidth(widths); total > t.termWidth {
		widths.preview = max(minPreviewWidth, widths.preview-(total-t.termWidth))
	}
	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.name + widths.preview + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %s  %s ",
		runewidth.FillRight("NAME", widths.name),
		runewidth.FillRight("PREVIEW", widths.preview))
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(entry index.Entry, widths columnWidths) string {
	name := runewidth.FillRight(displayName(entry), widths.name)

	var preview string
	if entry.PreviewState == index.PreviewReady {
		text := runewidth.Truncate(previewText(entry), widths.preview, ellipsis)
		if entry.Title != "" && strings.HasPrefix(text, entry.Title) {
			preview = t.styles.Title.Render(entry.Title) + t.styles.Preview.Render(text[len(entry.Title):])
		} else {
			preview = t.styles.Preview.Render(text)
		}
	} else {
		preview = t.styles.Placeholder.Render(entry.Preview)
	}

	return " " + t.styles.Name.Render(name) + "  " + preview
}

// FormatListSummary formats the line under a listing.
func (t *TableFormatter) FormatListSummary(shown, total int, folder string) string {
	word := "documents"
	if total == 1 {
		word = "document"
	}
	if folder == "" {
		folder = "/"
	}

	summary := fmt.Sprintf(" %d %s in %s", total, word, folder)
	if shown != total {
		summary = fmt.Sprintf(" %d of %d %s in %s match", shown, total, word, folder)
	}
	return t.styles.TableLegend.Render(summary)
}

func displayName(entry index.Entry) string {
	return strings.TrimSuffix(entry.Name, index.MarkdownExt)
}

// previewText puts the title in front of the preview unless the preview
// already starts with it.
func previewText(entry index.Entry) string {
	if entry.Title == "" || strings.HasPrefix(entry.Preview, entry.Title) {
		return entry.Preview
	}
	return entry.Title + ": " + entry.Preview
}
