package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/yaklabco/mdinbox/pkg/transform"
)

// thematicBreakText is the literal kept for a degraded thematic break.
const thematicBreakText = "---"

// segmenter converts a goldmark block tree into transform blocks.
type segmenter struct {
	source   []byte
	warnings []Warning
}

func newSegmenter(source []byte) *segmenter {
	return &segmenter{source: source}
}

// blocks maps every child of parent.
func (s *segmenter) blocks(parent ast.Node) []transform.Block {
	var out []transform.Block
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, s.block(child))
	}
	return out
}

func (s *segmenter) block(node ast.Node) transform.Block {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return transform.Block{Kind: transform.BlockParagraph, Text: s.inlineText(n)}

	case *ast.Heading:
		return transform.Block{Kind: transform.BlockHeading, Level: n.Level, Text: s.inlineText(n)}

	case *ast.FencedCodeBlock:
		return transform.Block{
			Kind:     transform.BlockCode,
			Language: s.info(n),
			Text:     s.codeText(n),
		}

	case *ast.CodeBlock:
		return transform.Block{Kind: transform.BlockCode, Text: s.codeText(n)}

	case *ast.Blockquote:
		return s.quote(n)

	case *ast.List:
		return s.list(n)

	default:
		return transform.Block{
			Kind:    transform.BlockParagraph,
			Text:    s.degrade(node),
			Literal: true,
		}
	}
}

// quote joins the quote's paragraphs with a blank line. Anything else inside
// the quote is kept as literal text.
func (s *segmenter) quote(quote *ast.Blockquote) transform.Block {
	var parts []string
	for child := quote.FirstChild(); child != nil; child = child.NextSibling() {
		if para, ok := child.(*ast.Paragraph); ok {
			parts = append(parts, s.inlineText(para))
			continue
		}
		parts = append(parts, transform.EscapeText(s.degrade(child), false))
	}
	return transform.Block{Kind: transform.BlockQuote, Text: strings.Join(parts, "\n\n")}
}

func (s *segmenter) list(list *ast.List) transform.Block {
	block := transform.Block{
		Kind:    transform.BlockList,
		Ordered: list.IsOrdered(),
		Start:   list.Start,
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		itemBlock := transform.Block{Kind: transform.BlockListItem}

		var parts []string
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				parts = append(parts, s.inlineText(c))
			case *ast.List:
				itemBlock.Children = append(itemBlock.Children, s.list(c))
			default:
				parts = append(parts, transform.EscapeText(s.degrade(c), false))
			}
		}
		itemBlock.Text = strings.Join(parts, "\n\n")
		block.Children = append(block.Children, itemBlock)
	}
	return block
}

// inlineText recovers a block's inline source from its line segments.
func (s *segmenter) inlineText(node ast.Node) string {
	lines := node.Lines()
	parts := make([]string, 0, lines.Len())
	for i := range lines.Len() {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(s.source)), "\r\n")
		parts = append(parts, strings.TrimLeft(line, " \t"))
	}
	return strings.TrimRight(strings.Join(parts, "\n"), " \t")
}

// info returns the whole info string of a fenced code block, not only its
// first word.
func (s *segmenter) info(n *ast.FencedCodeBlock) string {
	if n.Info == nil {
		return ""
	}
	return strings.TrimSpace(string(n.Info.Segment.Value(s.source)))
}

// codeText concatenates a code block's lines, dropping the final newline.
func (s *segmenter) codeText(node ast.Node) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(s.source))
	}
	body := buf.String()
	body = strings.TrimSuffix(body, "\n")
	return strings.TrimSuffix(body, "\r")
}

// degrade records a warning and returns the construct's literal text.
func (s *segmenter) degrade(node ast.Node) string {
	raw := s.rawText(node)
	s.warnings = append(s.warnings, Warning{
		Type:      WarningParseDegraded,
		Construct: node.Kind().String(),
		Line:      s.line(node),
		Message:   fmt.Sprintf("%s is not supported; kept as literal text", node.Kind()),
	})
	return raw
}

func (s *segmenter) rawText(node ast.Node) string {
	if _, ok := node.(*ast.ThematicBreak); ok {
		return thematicBreakText
	}

	lines := node.Lines()
	if lines.Len() == 0 {
		var parts []string
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if child.Type() != ast.TypeBlock {
				continue
			}
			if text := s.rawText(child); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	}

	parts := make([]string, 0, lines.Len()+1)
	for i := range lines.Len() {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(s.source)), "\r\n"))
	}
	if html, ok := node.(*ast.HTMLBlock); ok && html.HasClosure() {
		parts = append(parts, strings.TrimRight(string(html.ClosureLine.Value(s.source)), "\r\n"))
	}
	return strings.Join(parts, "\n")
}

// line returns the 1-based line of the node's first segment, or 0.
func (s *segmenter) line(node ast.Node) int {
	if lines := node.Lines(); lines != nil && lines.Len() > 0 {
		return bytes.Count(s.source[:lines.At(0).Start], []byte("\n")) + 1
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		if line := s.line(child); line > 0 {
			return line
		}
	}
	return 0
}
