package transform

import (
	"regexp"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

//nolint:gochecknoglobals // Compiled once.
var (
	linkPattern       = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\(((?:[^()\s\\]|\\\S)+)\)$`)
	hrefEscaper       = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)$`)
	imageBlockPattern = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)
)

// LinkTransformer maps link nodes to inline links.
type LinkTransformer struct {
	Base
}

// NewLinkTransformer creates the link text-match rule.
func NewLinkTransformer() *LinkTransformer {
	return &LinkTransformer{Base: NewBase("link", TypeTextMatch)}
}

// Export renders "[label](href)". Backslashes and parentheses in href are
// backslash-escaped.
func (t *LinkTransformer) Export(node *docmodel.Node, ctx *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindLink {
		return "", false
	}
	return "[" + ctx.Inline(node) + "](" + hrefEscaper.Replace(node.Href) + ")", true
}

// Trigger returns ')'.
func (t *LinkTransformer) Trigger() rune {
	return ')'
}

// Match finds "[label](href)" at the end of text. It declines when the opening
// bracket is escaped or preceded by "!", leaving image literals to the image rule.
func (t *LinkTransformer) Match(text string) (Match, bool) {
	m, ok := matchPattern(linkPattern, text)
	if !ok {
		return Match{}, false
	}
	if m.Start > 0 && text[m.Start-1] == '!' && !Escaped(text, m.Start-1) {
		return Match{}, false
	}
	return m, true
}

// Replace builds a link around the label's text runs.
func (t *LinkTransformer) Replace(m Match, ctx *ImportContext) *docmodel.Node {
	return docmodel.NewLink(unescapeHref(m.Groups[1]), ctx.Runs(m.Groups[0])...)
}

// unescapeHref drops the backslash of "\\", "\(" and "\)". Other
// backslashes are part of the href.
func unescapeHref(href string) string {
	if !strings.Contains(href, `\`) {
		return href
	}
	var sb strings.Builder
	sb.Grow(len(href))
	for i := 0; i < len(href); i++ {
		if href[i] == '\\' && i+1 < len(href) && strings.IndexByte(`\()`, href[i+1]) >= 0 {
			i++
		}
		sb.WriteByte(href[i])
	}
	return sb.String()
}

// ImageTransformer maps image nodes to image literals. It is both an element
// rule (a paragraph that is exactly one literal) and a text-match rule.
type ImageTransformer struct {
	Base
}

// NewImageTransformer creates the image rule.
func NewImageTransformer() *ImageTransformer {
	return &ImageTransformer{Base: NewBase("image", TypeElement|TypeTextMatch)}
}

// Export renders "![alt](src)".
func (t *ImageTransformer) Export(node *docmodel.Node, _ *ExportContext) (string, bool) {
	if node.Kind != docmodel.KindImage {
		return "", false
	}
	return "![" + node.AltText + "](" + node.Source() + ")", true
}

// ImportBlock accepts a paragraph consisting of a single image literal.
func (t *ImageTransformer) ImportBlock(block Block, _ *ImportContext) (*docmodel.Node, bool) {
	if block.Kind != BlockParagraph || block.Literal {
		return nil, false
	}
	groups := imageBlockPattern.FindStringSubmatch(strings.TrimSpace(block.Text))
	if groups == nil {
		return nil, false
	}
	return newImage(groups[1], groups[2]), true
}

// Trigger returns ')'.
func (t *ImageTransformer) Trigger() rune {
	return ')'
}

// Match finds "![alt](src)" at the end of text.
func (t *ImageTransformer) Match(text string) (Match, bool) {
	return matchPattern(imagePattern, text)
}

// Replace builds an image at natural size.
func (t *ImageTransformer) Replace(m Match, _ *ImportContext) *docmodel.Node {
	return newImage(m.Groups[0], m.Groups[1])
}

func newImage(alt, src string) *docmodel.Node {
	return docmodel.NewImage(docmodel.ImageOptions{
		Source:  src,
		AltText: alt,
		Width:   docmodel.NaturalSize,
		Height:  docmodel.NaturalSize,
	})
}

// matchPattern runs an end-anchored pattern and rejects escaped openings.
func matchPattern(pattern *regexp.Regexp, text string) (Match, bool) {
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil || Escaped(text, loc[0]) {
		return Match{}, false
	}

	m := Match{Start: loc[0], End: loc[1]}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, "")
			continue
		}
		m.Groups = append(m.Groups, text[loc[i]:loc[i+1]])
	}
	return m, true
}

// Escaped reports whether the byte at idx is preceded by an odd number of backslashes.
func Escaped(text string, idx int) bool {
	n := 0
	for i := idx - 1; i >= 0 && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
