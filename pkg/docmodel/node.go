package docmodel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Tree errors.
var (
	ErrInvalidChild = errors.New("invalid child for node kind")
	ErrCycle        = errors.New("node cannot own one of its ancestors")
	ErrNotOwned     = errors.New("node is not owned by this parent")
)

// MaxHeadingLevel is the deepest heading level the model supports.
const MaxHeadingLevel = 3

// Node is a single document node.
//
// Block attributes: Level (heading), Ordered and Start (list), Language (code).
// Inline attributes: Text and Format (text run, Text is also the code body),
// Href (link). Image attributes are reached through accessors because the
// source may only change via SetSource.
type Node struct {
	// Kind is the node's type tag.
	Kind Kind

	// Level is the heading level (1-3).
	Level int

	// Ordered and Start describe a list.
	Ordered bool
	Start   int

	// Language is the info string of a code block.
	Language string

	// Text holds a text run's literal text or a code block's body.
	Text string

	// Format holds a text run's format flags.
	Format Format

	// Href is a link's target.
	Href string

	// AltText is an image's alternative text.
	AltText string

	// Width and Height are an image's dimensions.
	Width  Size
	Height Size

	source string

	key      string
	parent   *Node
	doc      *Document
	children []*Node
}

func newNode(kind Kind) *Node {
	return &Node{Kind: kind, key: uuid.NewString()}
}

// NewParagraph creates a paragraph holding inline children.
// It panics if a child is not inline content.
func NewParagraph(children ...*Node) *Node {
	return withChildren(newNode(KindParagraph), children)
}

// NewHeading creates a heading; level is clamped to 1..MaxHeadingLevel.
func NewHeading(level int, children ...*Node) *Node {
	node := newNode(KindHeading)
	node.Level = clampLevel(level)
	return withChildren(node, children)
}

// NewList creates a list of items. Start is only meaningful for ordered lists.
func NewList(ordered bool, start int, items ...*Node) *Node {
	node := newNode(KindList)
	node.Ordered = ordered
	node.Start = normalizeStart(ordered, start)
	return withChildren(node, items)
}

// NewListItem creates a list item holding inline children and nested lists.
func NewListItem(children ...*Node) *Node {
	return withChildren(newNode(KindListItem), children)
}

// NewQuote creates a block quote holding inline children.
func NewQuote(children ...*Node) *Node {
	return withChildren(newNode(KindQuote), children)
}

// NewCode creates a code block.
func NewCode(language, text string) *Node {
	node := newNode(KindCode)
	node.Language = language
	node.Text = text
	return node
}

// NewText creates a text run.
func NewText(text string, format Format) *Node {
	node := newNode(KindText)
	node.Text = text
	node.Format = format
	return node
}

// NewLink creates a link around text runs.
func NewLink(href string, children ...*Node) *Node {
	node := newNode(KindLink)
	node.Href = href
	return withChildren(node, children)
}

// ImageOptions carries the attributes of a new image node.
type ImageOptions struct {
	Source  string
	AltText string
	Width   Size
	Height  Size
}

// NewImage creates an image node. Sizes default to natural.
func NewImage(opts ImageOptions) *Node {
	node := newNode(KindImage)
	node.source = opts.Source
	node.AltText = opts.AltText
	node.Width = SizeOf(int(opts.Width))
	node.Height = SizeOf(int(opts.Height))
	return node
}

func withChildren(node *Node, children []*Node) *Node {
	for _, child := range children {
		if err := node.AppendChild(child); err != nil {
			panic(fmt.Sprintf("docmodel: %s: %v", node.Kind, err))
		}
	}
	return node
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > MaxHeadingLevel:
		return MaxHeadingLevel
	default:
		return level
	}
}

func normalizeStart(ordered bool, start int) int {
	if !ordered {
		return 0
	}
	if start < 0 {
		return 1
	}
	return start
}

// Key returns the node's identity. It is stable across clones and attribute changes.
func (n *Node) Key() string {
	return n.key
}

// Source returns an image's source URI.
func (n *Node) Source() string {
	return n.source
}

// SetSource replaces an image's source URI.
func (n *Node) SetSource(src string) {
	n.source = src
}

// SetAltText replaces an image's alternative text.
func (n *Node) SetAltText(alt string) {
	n.AltText = alt
}

// SetSize sets an image's dimensions; non-positive values mean natural size.
func (n *Node) SetSize(width, height int) {
	n.Width = SizeOf(width)
	n.Height = SizeOf(height)
}

// SetText replaces a text run's or code block's text.
func (n *Node) SetText(text string) {
	n.Text = text
}

// SetFormat replaces a text run's format flags.
func (n *Node) SetFormat(format Format) {
	n.Format = format
}

// SetLevel sets a heading's level, clamped to the supported range.
func (n *Node) SetLevel(level int) {
	n.Level = clampLevel(level)
}

// LinkTarget returns the href of the link enclosing a text run, if any.
func (n *Node) LinkTarget() (string, bool) {
	if n.parent != nil && n.parent.Kind == KindLink {
		return n.parent.Href, true
	}
	return "", false
}

// Parent returns the owning node, or nil for document roots and detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Document returns the owning document for root blocks.
func (n *Node) Document() *Document {
	return n.doc
}

// IsAttached reports whether the node has an owner.
func (n *Node) IsAttached() bool {
	return n.parent != nil || n.doc != nil
}

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	return n.Child(len(n.children) - 1)
}

// IndexOf returns the position of child, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// AppendChild appends child, detaching it from any previous owner.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertChild(len(n.children), child)
}

// InsertChild inserts child at position i (clamped), detaching it from any
// previous owner.
func (n *Node) InsertChild(i int, child *Node) error {
	if err := n.checkChild(child); err != nil {
		return err
	}

	child.Detach()

	i = max(0, min(i, len(n.children)))
	n.children = slices.Insert(n.children, i, child)
	child.parent = n
	return nil
}

// RemoveChild removes child from the node.
func (n *Node) RemoveChild(child *Node) error {
	idx := n.IndexOf(child)
	if idx < 0 {
		return ErrNotOwned
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
	return nil
}

// Detach removes the node from its owner, if any.
func (n *Node) Detach() {
	switch {
	case n.parent != nil:
		_ = n.parent.RemoveChild(n)
	case n.doc != nil:
		_ = n.doc.Remove(n)
	}
}

func (n *Node) checkChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil", ErrInvalidChild)
	}
	if !canContain(n.Kind, child.Kind) {
		return fmt.Errorf("%w: %s cannot contain %s", ErrInvalidChild, n.Kind, child.Kind)
	}
	for ancestor := n; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return ErrCycle
		}
	}
	return nil
}

// Clone deep-copies the subtree. Every copied node keeps its key and
// attributes; the returned root is detached.
func (n *Node) Clone() *Node {
	clone := *n
	clone.parent = nil
	clone.doc = nil
	clone.children = nil
	for _, child := range n.children {
		copied := child.Clone()
		copied.parent = &clone
		clone.children = append(clone.children, copied)
	}
	return &clone
}

// TextContent returns the concatenated literal text of the subtree.
func (n *Node) TextContent() string {
	if n.Kind == KindText || n.Kind == KindCode {
		return n.Text
	}
	if n.Kind == KindImage {
		return n.AltText
	}
	var out []byte
	for _, child := range n.children {
		out = append(out, child.TextContent()...)
	}
	return string(out)
}

// Replace puts repl at old's position in old's owner. repl is detached from
// its previous owner first; old ends up detached.
func Replace(old, repl *Node) error {
	switch {
	case old.parent != nil:
		parent := old.parent
		if err := parent.checkChild(repl); err != nil {
			return err
		}
		repl.Detach()
		idx := parent.IndexOf(old)
		if idx < 0 {
			return ErrNotOwned
		}
		parent.children[idx] = repl
		repl.parent = parent
		old.parent = nil
		return nil
	case old.doc != nil:
		return old.doc.replace(old, repl)
	default:
		return ErrNotOwned
	}
}
