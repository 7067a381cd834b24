// Package transform provides the ordered set of bidirectional markdown rules
// used by the serializer and the deserializer.
//
// A Transformer declares what it can do through its Type flags and the
// capability interfaces it implements. Registration order is precedence:
// the first transformer that accepts a node or a block wins.
package transform

import (
	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

// Type is the capability bit set of a transformer.
type Type uint8

// Capabilities.
const (
	// TypeElement transformers export and import whole blocks.
	TypeElement Type = 1 << iota

	// TypeTextFormat transformers map a format flag to inline markers.
	TypeTextFormat

	// TypeTextMatch transformers replace a pattern ending at a trigger character.
	TypeTextMatch
)

// Has reports whether t includes every capability in c.
func (t Type) Has(c Type) bool {
	return c != 0 && t&c == c
}

// Transformer is a single bidirectional markdown rule.
type Transformer interface {
	// Name returns the unique name of the transformer (e.g., "heading").
	Name() string

	// Type returns the capability flags.
	Type() Type

	// Export renders a node as markdown. It returns false to decline.
	Export(node *docmodel.Node, ctx *ExportContext) (string, bool)
}

// ElementImporter is implemented by element transformers.
type ElementImporter interface {
	Transformer

	// ImportBlock builds a node from a segmented block. It returns false to decline.
	ImportBlock(block Block, ctx *ImportContext) (*docmodel.Node, bool)
}

// FormatMarker is implemented by text-format transformers.
type FormatMarker interface {
	Transformer

	// Format returns the flag this marker represents.
	Format() docmodel.Format

	// Tag returns the marker written on export.
	Tag() string

	// ImportTags returns every marker accepted on import, longest first.
	ImportTags() []string

	// Wrap surrounds already exported content with the marker.
	Wrap(content string) string
}

// TextMatcher is implemented by text-match transformers.
type TextMatcher interface {
	Transformer

	// Trigger returns the character that causes Match to be attempted.
	Trigger() rune

	// Match looks for the pattern ending at the end of text.
	Match(text string) (Match, bool)

	// Replace builds the node that stands in for the matched span.
	Replace(m Match, ctx *ImportContext) *docmodel.Node
}

// Match is a successful text match. Start and End are byte offsets into the
// text passed to Match; Groups holds the pattern's submatches.
type Match struct {
	Start  int
	End    int
	Groups []string
}

// BlockKind classifies a segmented markdown block.
type BlockKind uint8

// Block kinds produced by segmentation.
const (
	BlockParagraph BlockKind = iota + 1
	BlockHeading
	BlockQuote
	BlockCode
	BlockList
	BlockListItem
)

// Block is a segmented markdown block before element import.
type Block struct {
	Kind BlockKind

	// Text is the block's inline source (paragraph, heading, quote, list item)
	// or the literal body of a code block.
	Text string

	// Literal marks text that must not be scanned for inline markup.
	Literal bool

	Level    int
	Ordered  bool
	Start    int
	Language string

	// Children holds list items of a list and nested lists of a list item.
	Children []Block
}

// ExportContext gives export callbacks access to the serializer.
type ExportContext struct {
	// Inline renders the inline children of a node.
	Inline func(node *docmodel.Node) string

	// Block renders a nested block node.
	Block func(node *docmodel.Node) string
}

// ImportContext gives import callbacks access to the deserializer.
type ImportContext struct {
	// Inline scans text into inline nodes (text runs and links).
	Inline func(text string) []*docmodel.Node

	// Runs scans text into formatted text runs only.
	Runs func(text string) []*docmodel.Node

	// Block imports a nested block through the registry.
	Block func(block Block) (*docmodel.Node, bool)
}

// Base carries the name and type of a transformer.
// Embed it and implement the remaining methods.
type Base struct {
	name string
	typ  Type
}

// NewBase creates a Base.
func NewBase(name string, typ Type) Base {
	return Base{name: name, typ: typ}
}

// Name returns the transformer name.
func (b Base) Name() string {
	return b.name
}

// Type returns the capability flags.
func (b Base) Type() Type {
	return b.typ
}
