// Package docmodel defines the rich-text document tree edited by mdinbox.
//
// A Document owns an ordered forest of block nodes. Every node is a Node
// value tagged with a Kind; per-kind attributes live on the same struct and
// are only meaningful for the kinds that declare them. Ownership is strict:
// a node has exactly one owner (its parent node, or the Document for roots)
// and the tree is acyclic.
package docmodel

// Kind classifies a node. The set is closed.
type Kind uint8

// Node kinds.
const (
	// Block-level nodes.
	KindParagraph Kind = iota + 1
	KindHeading
	KindList
	KindListItem
	KindQuote
	KindCode
	KindImage

	// Inline-level nodes.
	KindLink
	KindText
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindTags = map[Kind]string{
	KindParagraph: "paragraph",
	KindHeading:   "heading",
	KindList:      "list",
	KindListItem:  "listitem",
	KindQuote:     "quote",
	KindCode:      "code",
	KindImage:     "image",
	KindLink:      "link",
	KindText:      "text",
}

// String returns the type tag used in the JSON export shape.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// ParseKind maps a type tag back to its Kind.
func ParseKind(tag string) (Kind, bool) {
	for kind, name := range kindTags {
		if name == tag {
			return kind, true
		}
	}
	return 0, false
}

// IsBlock reports whether the kind may appear as a Document root.
// List items are block-level but only live inside lists.
func (k Kind) IsBlock() bool {
	switch k {
	case KindParagraph, KindHeading, KindList, KindQuote, KindCode, KindImage:
		return true
	default:
		return false
	}
}

// IsInline reports whether the kind is inline content.
func (k Kind) IsInline() bool {
	return k == KindText || k == KindLink
}

// IsLeaf reports whether nodes of this kind never have children.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindText, KindCode, KindImage:
		return true
	default:
		return false
	}
}

// canContain reports whether a node of kind parent may own a child of kind child.
func canContain(parent, child Kind) bool {
	switch parent {
	case KindParagraph, KindHeading, KindQuote:
		return child.IsInline()
	case KindListItem:
		return child.IsInline() || child == KindList
	case KindList:
		return child == KindListItem
	case KindLink:
		return child == KindText
	default:
		return false
	}
}
