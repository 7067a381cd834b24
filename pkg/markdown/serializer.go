package markdown

import (
	"strings"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/transform"
)

// blockSeparator joins serialized root blocks.
const blockSeparator = "\n\n"

// Serializer renders documents as markdown.
type Serializer struct {
	registry *transform.Registry
}

// NewSerializer creates a serializer over the given registry.
// A nil registry means transform.Default().
func NewSerializer(registry *transform.Registry) *Serializer {
	if registry == nil {
		registry = transform.Default()
	}
	return &Serializer{registry: registry}
}

// Serialize renders the document. Blocks are joined by a blank line, empty
// paragraphs are skipped, and there is no trailing newline.
func (s *Serializer) Serialize(doc *docmodel.Document) string {
	if doc == nil {
		return ""
	}

	var parts []string
	for _, block := range doc.Blocks() {
		if transform.IsEmptyParagraph(block) {
			continue
		}
		parts = append(parts, s.block(block))
	}
	return strings.Join(parts, blockSeparator)
}

// SerializeNode renders a single block node.
func (s *Serializer) SerializeNode(node *docmodel.Node) string {
	if node.Kind.IsInline() {
		return s.inline(node)
	}
	return s.block(node)
}

func (s *Serializer) block(node *docmodel.Node) string {
	ctx := &transform.ExportContext{
		Inline: s.inline,
		Block:  s.block,
	}
	for _, element := range s.registry.Elements() {
		if out, ok := element.Export(node, ctx); ok {
			return out
		}
	}
	// Paragraphs and anything no element claims render as inline content.
	return s.inline(node)
}

// inline renders the inline children of node.
func (s *Serializer) inline(node *docmodel.Node) string {
	w := s.newInlineWriter(node.Kind != docmodel.KindLink)
	if node.Kind.IsInline() && node.Kind != docmodel.KindLink {
		w.node(node)
		return w.finish()
	}

	for _, child := range node.Children() {
		w.node(child)
	}
	return w.finish()
}

func (s *Serializer) newInlineWriter(lineStart bool) *inlineWriter {
	w := &inlineWriter{serializer: s, lineStart: lineStart}
	for _, marker := range s.registry.Formats() {
		if marker.Format() == docmodel.FormatCode {
			w.code = marker
			continue
		}
		w.formats = append(w.formats, marker)
	}
	return w
}

// exportLink renders a link through the first text-match rule that accepts it.
func (s *Serializer) exportLink(link *docmodel.Node) (string, bool) {
	ctx := &transform.ExportContext{Inline: s.inline, Block: s.block}
	for _, matcher := range s.registry.Matchers() {
		if out, ok := matcher.Export(link, ctx); ok {
			return out, true
		}
	}
	return "", false
}

// inlineWriter renders a sequence of inline nodes. Format markers stay open
// across consecutive runs that share them; code spans are always innermost.
type inlineWriter struct {
	serializer *Serializer
	formats    []transform.FormatMarker
	code       transform.FormatMarker
	open       []transform.FormatMarker
	lineStart  bool
	sb         strings.Builder
}

func (w *inlineWriter) node(n *docmodel.Node) {
	switch n.Kind {
	case docmodel.KindText:
		w.text(n)
	case docmodel.KindLink:
		w.link(n)
	default:
		// Nested lists and other blocks are rendered by their element rule.
	}
}

func (w *inlineWriter) text(run *docmodel.Node) {
	if run.Text == "" {
		return
	}
	w.transition(run.Format)

	if run.Format.Has(docmodel.FormatCode) && w.code != nil {
		w.sb.WriteString(w.code.Wrap(run.Text))
		return
	}
	w.sb.WriteString(transform.EscapeText(run.Text, w.atLineStart()))
}

func (w *inlineWriter) link(link *docmodel.Node) {
	w.transition(docmodel.FormatNone)

	out, ok := w.serializer.exportLink(link)
	if !ok {
		for _, child := range link.Children() {
			w.text(child)
		}
		return
	}

	// A bare "!" right before the link would turn it into an image literal.
	current := w.sb.String()
	if strings.HasSuffix(current, "!") && !transform.Escaped(current, len(current)-1) {
		w.sb.Reset()
		w.sb.WriteString(current[:len(current)-1])
		w.sb.WriteString(`\!`)
	}
	w.sb.WriteString(out)
}

// transition closes open markers the next run does not carry and opens the
// ones it adds, in registry order.
func (w *inlineWriter) transition(format docmodel.Format) {
	format = format.Without(docmodel.FormatCode)

	for i, marker := range w.open {
		if !format.Has(marker.Format()) {
			w.closeFrom(i)
			break
		}
	}

	for _, marker := range w.formats {
		if format.Has(marker.Format()) && !w.isOpen(marker) {
			w.sb.WriteString(marker.Tag())
			w.open = append(w.open, marker)
		}
	}
}

func (w *inlineWriter) closeFrom(i int) {
	for j := len(w.open) - 1; j >= i; j-- {
		w.sb.WriteString(w.open[j].Tag())
	}
	w.open = w.open[:i]
}

func (w *inlineWriter) isOpen(marker transform.FormatMarker) bool {
	for _, m := range w.open {
		if m == marker {
			return true
		}
	}
	return false
}

func (w *inlineWriter) atLineStart() bool {
	if w.sb.Len() == 0 {
		return w.lineStart
	}
	current := w.sb.String()
	return current[len(current)-1] == '\n'
}

func (w *inlineWriter) finish() string {
	w.closeFrom(0)
	return w.sb.String()
}
