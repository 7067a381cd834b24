package docmodel

import (
	"fmt"
	"slices"
)

// Document is the root container of an ordered forest of block nodes.
type Document struct {
	blocks []*Node
}

// NewDocument creates a document from the given blocks.
// It panics if a block is not a block-level node.
func NewDocument(blocks ...*Node) *Document {
	doc := &Document{}
	for _, block := range blocks {
		if err := doc.Append(block); err != nil {
			panic(fmt.Sprintf("docmodel: document: %v", err))
		}
	}
	return doc
}

// Blocks returns a copy of the root blocks.
func (d *Document) Blocks() []*Node {
	return slices.Clone(d.blocks)
}

// Len returns the number of root blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Block returns the i-th root block or nil.
func (d *Document) Block(i int) *Node {
	if i < 0 || i >= len(d.blocks) {
		return nil
	}
	return d.blocks[i]
}

// LastBlock returns the last root block or nil.
func (d *Document) LastBlock() *Node {
	return d.Block(len(d.blocks) - 1)
}

// IndexOf returns the position of a root block, or -1.
func (d *Document) IndexOf(block *Node) int {
	return slices.Index(d.blocks, block)
}

// Append adds a root block, detaching it from any previous owner.
func (d *Document) Append(block *Node) error {
	return d.Insert(len(d.blocks), block)
}

// Insert adds a root block at position i (clamped).
func (d *Document) Insert(i int, block *Node) error {
	if err := checkRoot(block); err != nil {
		return err
	}
	block.Detach()
	i = max(0, min(i, len(d.blocks)))
	d.blocks = slices.Insert(d.blocks, i, block)
	block.doc = d
	return nil
}

// Remove detaches a root block.
func (d *Document) Remove(block *Node) error {
	idx := d.IndexOf(block)
	if idx < 0 {
		return ErrNotOwned
	}
	d.blocks = slices.Delete(d.blocks, idx, idx+1)
	block.doc = nil
	return nil
}

// Clear removes every block. Removed nodes are detached and must not be reused
// as part of this document's history.
func (d *Document) Clear() {
	for _, block := range d.blocks {
		block.doc = nil
	}
	d.blocks = nil
}

// IsEmpty reports whether the document has no content worth persisting:
// no blocks, or only paragraphs without text.
func (d *Document) IsEmpty() bool {
	for _, block := range d.blocks {
		if block.Kind != KindParagraph || block.TextContent() != "" {
			return false
		}
	}
	return true
}

// Clone deep-copies the document, keeping node keys.
func (d *Document) Clone() *Document {
	clone := &Document{}
	for _, block := range d.blocks {
		copied := block.Clone()
		copied.doc = clone
		clone.blocks = append(clone.blocks, copied)
	}
	return clone
}

func (d *Document) replace(old, repl *Node) error {
	if err := checkRoot(repl); err != nil {
		return err
	}
	repl.Detach()
	idx := d.IndexOf(old)
	if idx < 0 {
		return ErrNotOwned
	}
	d.blocks[idx] = repl
	repl.doc = d
	old.doc = nil
	return nil
}

func checkRoot(block *Node) error {
	if block == nil {
		return fmt.Errorf("%w: nil", ErrInvalidChild)
	}
	if !block.Kind.IsBlock() {
		return fmt.Errorf("%w: document cannot contain %s", ErrInvalidChild, block.Kind)
	}
	return nil
}
