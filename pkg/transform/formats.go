package transform

import (
	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

// FormatTransformer maps one format flag to a symmetric inline marker.
type FormatTransformer struct {
	Base

	format     docmodel.Format
	tag        string
	importTags []string
}

// NewFormatTransformer creates a text-format rule. The export tag is always
// accepted on import; extra import tags may be given.
func NewFormatTransformer(name string, format docmodel.Format, tag string, extra ...string) *FormatTransformer {
	return &FormatTransformer{
		Base:       NewBase(name, TypeTextFormat),
		format:     format,
		tag:        tag,
		importTags: append([]string{tag}, extra...),
	}
}

// NewBoldTransformer creates the "**" rule.
func NewBoldTransformer() *FormatTransformer {
	return NewFormatTransformer("bold", docmodel.FormatBold, "**", "__")
}

// NewItalicTransformer creates the "_" rule; "*" is accepted on import.
func NewItalicTransformer() *FormatTransformer {
	return NewFormatTransformer("italic", docmodel.FormatItalic, "_", "*")
}

// NewStrikethroughTransformer creates the "~~" rule.
func NewStrikethroughTransformer() *FormatTransformer {
	return NewFormatTransformer("strikethrough", docmodel.FormatStrikethrough, "~~")
}

// Format returns the flag this rule represents.
func (t *FormatTransformer) Format() docmodel.Format {
	return t.format
}

// Tag returns the export marker.
func (t *FormatTransformer) Tag() string {
	return t.tag
}

// ImportTags returns the accepted markers.
func (t *FormatTransformer) ImportTags() []string {
	return t.importTags
}

// Wrap surrounds content with the export marker.
func (t *FormatTransformer) Wrap(content string) string {
	return t.tag + content + t.tag
}

// Export renders a text run that carries only this format.
// The serializer applies formats by wrapping; this covers standalone runs.
func (t *FormatTransformer) Export(node *docmodel.Node, _ *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindText || node.Format != t.format || node.Text == "" {
		return "", false
	}
	return t.Wrap(EscapeText(node.Text, false)), true
}

// CodeFormatTransformer maps the code flag to backtick code spans.
// It is always applied innermost; the content is written verbatim.
type CodeFormatTransformer struct {
	Base
}

// NewCodeFormatTransformer creates the inline code rule.
func NewCodeFormatTransformer() *CodeFormatTransformer {
	return &CodeFormatTransformer{Base: NewBase("inline-code", TypeTextFormat)}
}

// Format returns the code flag.
func (t *CodeFormatTransformer) Format() docmodel.Format {
	return docmodel.FormatCode
}

// Tag returns a single backtick; the actual fence grows with the content.
func (t *CodeFormatTransformer) Tag() string {
	return "`"
}

// ImportTags returns the backtick.
func (t *CodeFormatTransformer) ImportTags() []string {
	return []string{"`"}
}

// Wrap renders content as a code span.
func (t *CodeFormatTransformer) Wrap(content string) string {
	return CodeSpan(content)
}

// Export renders a code-only text run.
func (t *CodeFormatTransformer) Export(node *docmodel.Node, _ *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindText || node.Format != docmodel.FormatCode || node.Text == "" {
		return "", false
	}
	return t.Wrap(node.Text), true
}
