package transform

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

// HeadingTransformer maps heading nodes to ATX headings.
type HeadingTransformer struct {
	Base
}

// NewHeadingTransformer creates the heading element rule.
func NewHeadingTransformer() *HeadingTransformer {
	return &HeadingTransformer{Base: NewBase("heading", TypeElement)}
}

// Export renders level hash marks followed by the inline content on one
// line. A trailing run of '#' is escaped so it is not read as a closing
// sequence.
func (t *HeadingTransformer) Export(node *docmodel.Node, ctx *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindHeading {
		return "", false
	}
	marker := strings.Repeat("#", node.Level)
	content := escapeClosingSequence(strings.ReplaceAll(ctx.Inline(node), "\n", " "))
	if content == "" {
		return marker, true
	}
	return marker + " " + content, true
}

// ImportBlock builds a heading, clamping the level. The lines of a setext
// heading are joined with spaces.
func (t *HeadingTransformer) ImportBlock(block Block, ctx *ImportContext) (*docmodel.Node, bool) {
	if block.Kind != BlockHeading {
		return nil, false
	}
	block.Text = strings.ReplaceAll(block.Text, "\n", " ")
	return docmodel.NewHeading(block.Level, importInline(block, ctx)...), true
}

// escapeClosingSequence escapes the first '#' of a trailing run that is
// preceded by a blank or starts the content.
func escapeClosingSequence(content string) string {
	end := len(strings.TrimRight(content, " \t"))
	start := end
	for start > 0 && content[start-1] == '#' {
		start--
	}
	if start == end {
		return content
	}
	if start > 0 && content[start-1] != ' ' && content[start-1] != '\t' {
		return content
	}
	return content[:start] + `\` + content[start:]
}

// QuoteTransformer maps quote nodes to block quotes.
type QuoteTransformer struct {
	Base
}

// NewQuoteTransformer creates the quote element rule.
func NewQuoteTransformer() *QuoteTransformer {
	return &QuoteTransformer{Base: NewBase("quote", TypeElement)}
}

// Export prefixes every line of the inline content with "> ".
func (t *QuoteTransformer) Export(node *docmodel.Node, ctx *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindQuote {
		return "", false
	}
	lines := strings.Split(ctx.Inline(node), "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n"), true
}

// ImportBlock builds a quote from its joined paragraph text.
func (t *QuoteTransformer) ImportBlock(block Block, ctx *ImportContext) (*docmodel.Node, bool) {
	if block.Kind != BlockQuote {
		return nil, false
	}
	return docmodel.NewQuote(importInline(block, ctx)...), true
}

// CodeTransformer maps code nodes to fenced code blocks.
type CodeTransformer struct {
	Base
}

// NewCodeTransformer creates the code block element rule.
func NewCodeTransformer() *CodeTransformer {
	return &CodeTransformer{Base: NewBase("code", TypeElement)}
}

// Export fences the body, using the language as the info string.
func (t *CodeTransformer) Export(node *docmodel.Node, _ *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindCode {
		return "", false
	}
	fence := CodeFence(node.Text)
	if node.Text == "" {
		return fence + node.Language + "\n" + fence, true
	}
	return fence + node.Language + "\n" + node.Text + "\n" + fence, true
}

// ImportBlock builds a code node from a fenced or indented code block.
func (t *CodeTransformer) ImportBlock(block Block, _ *ImportContext) (*docmodel.Node, bool) {
	if block.Kind != BlockCode {
		return nil, false
	}
	return docmodel.NewCode(block.Language, block.Text), true
}

// ListTransformer maps list nodes to bullet and ordered lists.
type ListTransformer struct {
	Base
}

// NewListTransformer creates the list element rule.
func NewListTransformer() *ListTransformer {
	return &ListTransformer{Base: NewBase("list", TypeElement)}
}

// Export renders one item per line. Nested lists are indented by the width of
// the parent item's marker. Lists of the same type that follow each other
// alternate their marker character so they stay separate lists.
func (t *ListTransformer) Export(node *docmodel.Node, ctx *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindList {
		return "", false
	}

	alternate := precedingLists(node)%2 == 1

	var sb strings.Builder
	for i, item := range node.Children() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		marker := listMarker(node, i, alternate)
		sb.WriteString(marker)
		sb.WriteString(indentBody(exportItem(item, ctx), len(marker)))
	}
	return sb.String(), true
}

// ImportBlock builds a list, importing nested lists through the registry.
func (t *ListTransformer) ImportBlock(block Block, ctx *ImportContext) (*docmodel.Node, bool) {
	if block.Kind != BlockList {
		return nil, false
	}

	list := docmodel.NewList(block.Ordered, block.Start)
	for _, itemBlock := range block.Children {
		item := docmodel.NewListItem(importInline(itemBlock, ctx)...)
		for _, nested := range itemBlock.Children {
			child, ok := ctx.Block(nested)
			if !ok || child.Kind != docmodel.KindList {
				continue
			}
			_ = item.AppendChild(child)
		}
		_ = list.AppendChild(item)
	}
	return list, true
}

func listMarker(list *docmodel.Node, index int, alternate bool) string {
	if list.Ordered {
		delim := "."
		if alternate {
			delim = ")"
		}
		return strconv.Itoa(list.Start+index) + delim + " "
	}
	if alternate {
		return "* "
	}
	return "- "
}

// precedingLists counts the lists of the same type that end up directly
// before list in the output. Inline siblings and empty paragraphs do not
// separate lists.
func precedingLists(list *docmodel.Node) int {
	var siblings []*docmodel.Node
	switch {
	case list.Parent() != nil:
		siblings = list.Parent().Children()
	case list.Document() != nil:
		siblings = list.Document().Blocks()
	}

	count := 0
	for i := slices.Index(siblings, list) - 1; i >= 0; i-- {
		sibling := siblings[i]
		switch {
		case sibling.Kind == docmodel.KindList && sibling.Ordered == list.Ordered:
			count++
		case sibling.Kind.IsInline(), IsEmptyParagraph(sibling):
		default:
			return count
		}
	}
	return count
}

// IsEmptyParagraph reports whether a paragraph renders to nothing.
func IsEmptyParagraph(node *docmodel.Node) bool {
	if node.Kind != docmodel.KindParagraph {
		return false
	}
	for _, child := range node.Children() {
		if child.Kind != docmodel.KindText || child.Text != "" {
			return false
		}
	}
	return true
}

// exportItem renders an item's inline content followed by its nested lists.
func exportItem(item *docmodel.Node, ctx *ExportContext) string {
	var parts []string
	inline := ctx.Inline(item)
	if inline != "" {
		parts = append(parts, inline)
	}

	for _, child := range item.Children() {
		if child.Kind != docmodel.KindList {
			continue
		}
		parts = append(parts, ctx.Block(child))
	}

	body := strings.Join(parts, "\n")
	if len(parts) > 0 && inline == "" {
		body = "\n" + body
	}
	return body
}

// indentBody indents every line after the first by width spaces.
func indentBody(body string, width int) string {
	lines := strings.Split(body, "\n")
	pad := strings.Repeat(" ", width)
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func importInline(block Block, ctx *ImportContext) []*docmodel.Node {
	if block.Text == "" {
		return nil
	}
	if block.Literal {
		return []*docmodel.Node{docmodel.NewText(block.Text, docmodel.FormatNone)}
	}
	return ctx.Inline(block.Text)
}
