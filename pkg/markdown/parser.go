package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/transform"
)

// Parser converts markdown into documents.
type Parser struct {
	registry *transform.Registry
	md       goldmark.Markdown
	scanner  *inlineScanner
	ctx      *transform.ImportContext
}

// NewParser creates a parser over the given registry.
// A nil registry means transform.Default().
func NewParser(registry *transform.Registry) *Parser {
	if registry == nil {
		registry = transform.Default()
	}

	p := &Parser{
		registry: registry,
		// CommonMark core only: block segmentation is all goldmark does here.
		md:      goldmark.New(),
		scanner: newInlineScanner(registry),
	}
	p.ctx = &transform.ImportContext{
		Inline: p.scanner.ctx.Inline,
		Runs:   p.scanner.ctx.Runs,
		Block:  p.importElement,
	}
	p.scanner.ctx.Block = p.importElement
	return p
}

// Parse converts markdown into a document. It never fails; constructs the
// model cannot represent are kept as literal text and reported as warnings.
func (p *Parser) Parse(markdown string) Result {
	source := []byte(markdown)
	root := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	seg := newSegmenter(source)
	blocks := seg.blocks(root)

	doc := docmodel.NewDocument()
	for _, block := range blocks {
		for _, node := range p.importBlock(block) {
			_ = doc.Append(node)
		}
	}

	return Result{Document: doc, Warnings: seg.warnings}
}

// ParseInline scans inline markdown. With allowBlocks, text-match rules that
// produce block nodes (images) apply too; otherwise their literals stay text.
func (p *Parser) ParseInline(markdown string, allowBlocks bool) []*docmodel.Node {
	if allowBlocks {
		return p.scanner.scan(markdown, scanBlocks)
	}
	return p.scanner.scan(markdown, scanInline)
}

// importBlock offers a block to the element rules in registry order and falls
// back to paragraphs.
func (p *Parser) importBlock(block transform.Block) []*docmodel.Node {
	if node, ok := p.importElement(block); ok {
		return []*docmodel.Node{node}
	}
	return p.paragraphs(block)
}

func (p *Parser) importElement(block transform.Block) (*docmodel.Node, bool) {
	for _, element := range p.registry.Elements() {
		if node, ok := element.ImportBlock(block, p.ctx); ok && node != nil {
			return node, true
		}
	}
	return nil, false
}

// paragraphs builds paragraph nodes from block text. Block-level nodes found
// in the text (image literals) split the paragraph around them.
func (p *Parser) paragraphs(block transform.Block) []*docmodel.Node {
	if block.Literal {
		return []*docmodel.Node{docmodel.NewParagraph(docmodel.NewText(block.Text, docmodel.FormatNone))}
	}

	var out []*docmodel.Node
	var current *docmodel.Node
	afterBlock := false

	flush := func(beforeBlock bool) {
		if current == nil {
			return
		}
		if afterBlock {
			trimEdge(current, true)
		}
		if beforeBlock {
			trimEdge(current, false)
		}
		if !isBlank(current) {
			out = append(out, current)
		}
		current = nil
	}

	for _, node := range p.scanner.scan(block.Text, scanBlocks) {
		if node.Kind.IsBlock() {
			flush(true)
			out = append(out, node)
			afterBlock = true
			continue
		}
		if current == nil {
			current = docmodel.NewParagraph()
		}
		_ = current.AppendChild(node)
	}
	flush(false)

	return out
}

// trimEdge trims whitespace left over where a paragraph was split.
// leading selects the first run, otherwise the last.
func trimEdge(para *docmodel.Node, leading bool) {
	if para == nil || para.ChildCount() == 0 {
		return
	}

	run := para.LastChild()
	if leading {
		run = para.Child(0)
	}
	if run.Kind != docmodel.KindText || run.Format.Has(docmodel.FormatCode) {
		return
	}

	if leading {
		run.SetText(strings.TrimLeft(run.Text, " \t\n"))
	} else {
		run.SetText(strings.TrimRight(run.Text, " \t\n"))
	}
	if run.Text == "" {
		_ = para.RemoveChild(run)
	}
}

func isBlank(para *docmodel.Node) bool {
	for _, child := range para.Children() {
		if child.Kind != docmodel.KindText || strings.TrimSpace(child.Text) != "" {
			return false
		}
	}
	return true
}
